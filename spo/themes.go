package spo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ThemePalette is the color slot map of a tenant theme, keyed by slot name
// (themePrimary, neutralDark, ...).
type ThemePalette map[string]string

// ThemeInfo mirrors Microsoft.Online.SharePoint.TenantManagement.ThemeProperties.
type ThemeInfo struct {
	Name       string       `json:"Name"`
	IsInverted bool         `json:"IsInverted"`
	Palette    ThemePalette `json:"Palette"`
}

// ParseThemePalette validates the JSON palette file passed to theme set.
func ParseThemePalette(content []byte) (ThemePalette, error) {
	var palette ThemePalette
	if err := json.Unmarshal(content, &palette); err != nil {
		return nil, fmt.Errorf("decode theme palette: %w", err)
	}
	if len(palette) == 0 {
		return nil, errors.New("theme palette contains no color slots")
	}
	return palette, nil
}

type themeCollection struct {
	ChildItems []ThemeInfo `json:"_Child_Items_"`
}

func (c *HTTPClient) ListThemes(ctx context.Context) ([]ThemeInfo, error) {
	payload := envelope(
		`<ObjectPath Id="2" ObjectPathId="1" /><Method Name="GetAllTenantThemes" Id="3" ObjectPathId="1" />`,
		`<Constructor Id="1" TypeId="`+tenantTypeID+`" />`,
	)

	items, err := c.ProcessQuery(ctx, payload)
	if err != nil {
		return nil, err
	}

	var collection themeCollection
	if err := decodeLast(items, &collection); err != nil {
		return nil, err
	}
	return collection.ChildItems, nil
}

func (c *HTTPClient) GetTheme(ctx context.Context, name string) (*ThemeInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("theme name is required")
	}

	themes, err := c.ListThemes(ctx)
	if err != nil {
		return nil, err
	}
	for _, theme := range themes {
		if strings.EqualFold(theme.Name, name) {
			found := theme
			return &found, nil
		}
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

// SetTheme adds or overwrites a tenant theme.
func (c *HTTPClient) SetTheme(ctx context.Context, theme ThemeInfo) error {
	name := strings.TrimSpace(theme.Name)
	if name == "" {
		return errors.New("theme name is required")
	}
	if len(theme.Palette) == 0 {
		return errors.New("theme palette is required")
	}

	serialized, err := json.Marshal(struct {
		IsInverted bool         `json:"isInverted"`
		Name       string       `json:"name"`
		Palette    ThemePalette `json:"palette"`
	}{IsInverted: theme.IsInverted, Name: name, Palette: theme.Palette})
	if err != nil {
		return fmt.Errorf("serialize theme %q: %w", name, err)
	}

	payload := envelope(
		`<ObjectPath Id="2" ObjectPathId="1" /><Method Name="UpdateTenantTheme" Id="3" ObjectPathId="1"><Parameters>`+
			stringParam(name)+stringParam(string(serialized))+
			`</Parameters></Method>`,
		`<Constructor Id="1" TypeId="`+tenantTypeID+`" />`,
	)

	_, err = c.ProcessQueryWithDigest(ctx, c.siteURL, payload)
	return err
}

func (c *HTTPClient) RemoveTheme(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("theme name is required")
	}

	payload := envelope(
		`<ObjectPath Id="2" ObjectPathId="1" /><Method Name="DeleteTenantTheme" Id="3" ObjectPathId="1"><Parameters>`+stringParam(name)+`</Parameters></Method>`,
		`<Constructor Id="1" TypeId="`+tenantTypeID+`" />`,
	)

	_, err := c.ProcessQueryWithDigest(ctx, c.siteURL, payload)
	return err
}
