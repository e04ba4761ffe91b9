package spo

import (
	"context"
	"fmt"
	"strconv"
)

const (
	externalUserPageSizeMax     = 50
	externalUserPageSizeDefault = 10
)

// ExternalUserQuery selects a page of external users from the tenant.
type ExternalUserQuery struct {
	Filter   string
	Position int
	PageSize int
}

// Validate applies the server-side paging limits locally before any HTTP
// call is made.
func (q ExternalUserQuery) Validate() error {
	if q.Position < 0 {
		return fmt.Errorf("position must be 0 or a positive number, got %d", q.Position)
	}
	if q.PageSize < 1 || q.PageSize > externalUserPageSizeMax {
		return fmt.Errorf("pageSize must be between 1 and %d, got %d", externalUserPageSizeMax, q.PageSize)
	}
	return nil
}

// ExternalUser mirrors Microsoft.Online.SharePoint.TenantManagement.ExternalUser.
type ExternalUser struct {
	DisplayName   string `json:"DisplayName"`
	AcceptedAs    string `json:"AcceptedAs"`
	InvitedAs     string `json:"InvitedAs"`
	InvitedBy     string `json:"InvitedBy"`
	WhenCreated   string `json:"WhenCreated"`
	UniqueID      string `json:"UniqueId"`
	UserID        int    `json:"UserId"`
	IsCrossTenant bool   `json:"IsCrossTenant"`
}

// ExternalUserPage is one page of external user results.
type ExternalUserPage struct {
	TotalUserCount         int            `json:"TotalUserCount"`
	UserCollectionPosition int            `json:"UserCollectionPosition"`
	ExternalUserCollection []ExternalUser `json:"ExternalUserCollection"`
}

type externalUserResults struct {
	TotalUserCount         int `json:"TotalUserCount"`
	UserCollectionPosition int `json:"UserCollectionPosition"`
	ExternalUserCollection struct {
		ChildItems []ExternalUser `json:"_Child_Items_"`
	} `json:"ExternalUserCollection"`
}

func (c *HTTPClient) ListExternalUsers(ctx context.Context, query ExternalUserQuery) (*ExternalUserPage, error) {
	if query.PageSize == 0 {
		query.PageSize = externalUserPageSizeDefault
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	payload := envelope(
		`<ObjectPath Id="2" ObjectPathId="1" /><ObjectPath Id="4" ObjectPathId="3" />`+
			`<Query Id="5" ObjectPathId="3"><Query SelectAllProperties="true"><Properties /></Query>`+
			`<ChildItemQuery SelectAllProperties="true"><Properties /></ChildItemQuery></Query>`,
		`<Constructor Id="1" TypeId="`+office365TenantTypeID+`" />`+
			`<Method Id="3" ParentId="1" Name="GetExternalUsers"><Parameters>`+
			`<Parameter Type="Int32">`+strconv.Itoa(query.Position)+`</Parameter>`+
			`<Parameter Type="Int32">`+strconv.Itoa(query.PageSize)+`</Parameter>`+
			stringParam(query.Filter)+
			enumParam(0)+
			`</Parameters></Method>`,
	)

	items, err := c.ProcessQuery(ctx, payload)
	if err != nil {
		return nil, err
	}

	var results externalUserResults
	if err := decodeLast(items, &results); err != nil {
		return nil, err
	}
	return &ExternalUserPage{
		TotalUserCount:         results.TotalUserCount,
		UserCollectionPosition: results.UserCollectionPosition,
		ExternalUserCollection: results.ExternalUserCollection.ChildItems,
	}, nil
}
