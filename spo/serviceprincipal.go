package spo

import (
	"context"
	"encoding/json"
	"fmt"
)

// ServicePrincipal mirrors SPOWebAppServicePrincipal, the Azure AD service
// principal SharePoint Framework components authenticate through.
type ServicePrincipal struct {
	AccountEnabled bool     `json:"AccountEnabled"`
	AppID          string   `json:"AppId"`
	ReplyURLs      []string `json:"ReplyUrls"`

	// Properties holds the server object as returned, minus the type tag,
	// so printing shows every field the server sent.
	Properties map[string]any `json:"-"`
}

func decodeServicePrincipal(items []json.RawMessage) (*ServicePrincipal, error) {
	raw, err := lastObject(items)
	if err != nil {
		return nil, err
	}

	var principal ServicePrincipal
	if err := json.Unmarshal(raw, &principal); err != nil {
		return nil, fmt.Errorf("decode service principal: %w", err)
	}
	principal.Properties, err = StripTypeTag(raw)
	if err != nil {
		return nil, err
	}
	return &principal, nil
}

func (c *HTTPClient) GetServicePrincipal(ctx context.Context) (*ServicePrincipal, error) {
	payload := envelope(
		`<ObjectPath Id="2" ObjectPathId="1" /><Query Id="3" ObjectPathId="1"><Query SelectAllProperties="true"><Properties /></Query></Query>`,
		`<Constructor Id="1" TypeId="`+servicePrincipalTypeID+`" />`,
	)

	items, err := c.ProcessQuery(ctx, payload)
	if err != nil {
		return nil, err
	}
	return decodeServicePrincipal(items)
}

func (c *HTTPClient) SetServicePrincipalEnabled(ctx context.Context, enabled bool) (*ServicePrincipal, error) {
	payload := envelope(
		`<SetProperty Id="28" ObjectPathId="27" Name="AccountEnabled">`+boolParam(enabled)+`</SetProperty>`+
			`<Method Name="Update" Id="29" ObjectPathId="27" />`+
			`<Query Id="30" ObjectPathId="27"><Query SelectAllProperties="true"><Properties /></Query></Query>`,
		`<Constructor Id="27" TypeId="`+servicePrincipalTypeID+`" />`,
	)

	items, err := c.ProcessQueryWithDigest(ctx, c.siteURL, payload)
	if err != nil {
		return nil, err
	}
	return decodeServicePrincipal(items)
}
