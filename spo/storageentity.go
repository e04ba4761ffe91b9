package spo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StorageEntity is one tenant property bag entry stored on the app catalog
// site.
type StorageEntity struct {
	Key         string `json:"Key"`
	Value       string `json:"Value"`
	Description string `json:"Description"`
	Comment     string `json:"Comment"`
}

type allPropertiesResponse struct {
	StorageEntitiesIndex string `json:"storageentitiesindex"`
}

type storedEntity struct {
	Value       string `json:"Value"`
	Description string `json:"Description"`
	Comment     string `json:"Comment"`
}

// appCatalogWebPaths addresses the root web of the app catalog site, where
// storage entities live.
func appCatalogWebPaths() string {
	return `<StaticProperty Id="1" TypeId="` + clientContextTypeID + `" Name="Current" />` +
		`<Property Id="3" ParentId="1" Name="Site" />` +
		`<Property Id="5" ParentId="3" Name="RootWeb" />`
}

// ListStorageEntities reads the storageentitiesindex property of the app
// catalog root web over REST and decodes the JSON index embedded in it.
func (c *HTTPClient) ListStorageEntities(ctx context.Context, appCatalogURL string) (map[string]StorageEntity, error) {
	appCatalogURL = strings.TrimRight(strings.TrimSpace(appCatalogURL), "/")
	if appCatalogURL == "" {
		return nil, errors.New("app catalog URL is required")
	}

	var response allPropertiesResponse
	requestURL := appCatalogURL + "/_api/web/AllProperties?$select=storageentitiesindex"
	if err := c.GetJSON(ctx, requestURL, &response); err != nil {
		return nil, err
	}

	entities := map[string]StorageEntity{}
	if strings.TrimSpace(response.StorageEntitiesIndex) == "" {
		return entities, nil
	}

	var index map[string]storedEntity
	if err := json.Unmarshal([]byte(response.StorageEntitiesIndex), &index); err != nil {
		return nil, fmt.Errorf("decode storage entities index: %w", err)
	}
	for key, stored := range index {
		entities[key] = StorageEntity{
			Key:         key,
			Value:       stored.Value,
			Description: stored.Description,
			Comment:     stored.Comment,
		}
	}
	return entities, nil
}

func (c *HTTPClient) GetStorageEntity(ctx context.Context, appCatalogURL, key string) (*StorageEntity, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("storage entity key is required")
	}

	entities, err := c.ListStorageEntities(ctx, appCatalogURL)
	if err != nil {
		return nil, err
	}
	entity, ok := entities[key]
	if !ok {
		return nil, fmt.Errorf("storage entity %q not found", key)
	}
	return &entity, nil
}

func (c *HTTPClient) SetStorageEntity(ctx context.Context, appCatalogURL string, entity StorageEntity) error {
	appCatalogURL = strings.TrimRight(strings.TrimSpace(appCatalogURL), "/")
	if appCatalogURL == "" {
		return errors.New("app catalog URL is required")
	}
	if strings.TrimSpace(entity.Key) == "" {
		return errors.New("storage entity key is required")
	}

	payload := envelope(
		`<ObjectPath Id="2" ObjectPathId="1" /><ObjectPath Id="4" ObjectPathId="3" /><ObjectPath Id="6" ObjectPathId="5" />`+
			`<Method Name="SetStorageEntity" Id="7" ObjectPathId="5"><Parameters>`+
			stringParam(entity.Key)+stringParam(entity.Value)+
			nullableStringParam(entity.Description)+nullableStringParam(entity.Comment)+
			`</Parameters></Method>`,
		appCatalogWebPaths(),
	)

	_, err := c.ProcessQueryWithDigest(ctx, appCatalogURL, payload)
	return err
}

func (c *HTTPClient) RemoveStorageEntity(ctx context.Context, appCatalogURL, key string) error {
	appCatalogURL = strings.TrimRight(strings.TrimSpace(appCatalogURL), "/")
	if appCatalogURL == "" {
		return errors.New("app catalog URL is required")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("storage entity key is required")
	}

	payload := envelope(
		`<ObjectPath Id="2" ObjectPathId="1" /><ObjectPath Id="4" ObjectPathId="3" /><ObjectPath Id="6" ObjectPathId="5" />`+
			`<Method Name="RemoveStorageEntity" Id="7" ObjectPathId="5"><Parameters>`+stringParam(key)+`</Parameters></Method>`,
		appCatalogWebPaths(),
	)

	_, err := c.ProcessQueryWithDigest(ctx, appCatalogURL, payload)
	return err
}
