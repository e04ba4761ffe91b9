package spo

import (
	"context"
	"fmt"
	"strings"
)

// CdnType selects which tenant CDN an operation targets.
type CdnType int

const (
	CdnTypePublic  CdnType = 0
	CdnTypePrivate CdnType = 1
)

func (t CdnType) String() string {
	if t == CdnTypePrivate {
		return "Private"
	}
	return "Public"
}

// ParseCdnType accepts the CLI spelling of a CDN type.
func ParseCdnType(value string) (CdnType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "public":
		return CdnTypePublic, nil
	case "private":
		return CdnTypePrivate, nil
	default:
		return CdnTypePublic, fmt.Errorf("invalid CDN type %q (valid: Public, Private)", value)
	}
}

type tenantThemeSettings struct {
	HideDefaultThemes bool `json:"HideDefaultThemes"`
}

func (c *HTTPClient) GetHideDefaultThemes(ctx context.Context) (bool, error) {
	payload := envelope(
		`<ObjectPath Id="2" ObjectPathId="1" /><Query Id="3" ObjectPathId="1"><Query SelectAllProperties="false"><Properties><Property Name="HideDefaultThemes" ScalarProperty="true" /></Properties></Query></Query>`,
		`<Constructor Id="1" TypeId="`+tenantTypeID+`" />`,
	)

	items, err := c.ProcessQuery(ctx, payload)
	if err != nil {
		return false, err
	}

	var settings tenantThemeSettings
	if err := decodeLast(items, &settings); err != nil {
		return false, err
	}
	return settings.HideDefaultThemes, nil
}

func (c *HTTPClient) SetHideDefaultThemes(ctx context.Context, hide bool) error {
	payload := envelope(
		`<SetProperty Id="2" ObjectPathId="1" Name="HideDefaultThemes">`+boolParam(hide)+`</SetProperty>`,
		`<Constructor Id="1" TypeId="`+tenantTypeID+`" />`,
	)

	_, err := c.ProcessQueryWithDigest(ctx, c.siteURL, payload)
	return err
}

func (c *HTTPClient) GetTenantCdnEnabled(ctx context.Context, cdnType CdnType) (bool, error) {
	payload := envelope(
		`<ObjectPath Id="2" ObjectPathId="1" /><Method Name="GetTenantCdnEnabled" Id="3" ObjectPathId="1"><Parameters>`+enumParam(int(cdnType))+`</Parameters></Method>`,
		`<Constructor Id="1" TypeId="`+tenantTypeID+`" />`,
	)

	items, err := c.ProcessQuery(ctx, payload)
	if err != nil {
		return false, err
	}

	var enabled bool
	if err := decodeLast(items, &enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

func (c *HTTPClient) SetTenantCdnEnabled(ctx context.Context, cdnType CdnType, enabled bool) error {
	payload := envelope(
		`<ObjectPath Id="2" ObjectPathId="1" /><Method Name="SetTenantCdnEnabled" Id="3" ObjectPathId="1"><Parameters>`+enumParam(int(cdnType))+boolParam(enabled)+`</Parameters></Method>`,
		`<Constructor Id="1" TypeId="`+tenantTypeID+`" />`,
	)

	_, err := c.ProcessQueryWithDigest(ctx, c.siteURL, payload)
	return err
}
