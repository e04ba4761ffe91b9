package spo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

type fakeDoer struct {
	fn func(*http.Request) (*http.Response, error)
}

func (f fakeDoer) Do(req *http.Request) (*http.Response, error) {
	return f.fn(req)
}

type staticTokens struct {
	token string
}

func (s staticTokens) AccessToken(_ context.Context, _ string) (string, error) {
	return s.token, nil
}

func jsonResponse(payload string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(payload)),
		Header:     make(http.Header),
	}
}

func newTestClient(t *testing.T, doer httpDoer) *HTTPClient {
	t.Helper()
	client, err := NewClient(ClientConfig{
		SiteURL:    "https://contoso-admin.sharepoint.com",
		Tokens:     staticTokens{token: "test-token"},
		UserAgent:  "office365-cli-test",
		HTTPClient: doer,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestGetServicePrincipal_HeadersAndParsing(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost || r.URL.Path != "/_vti_bin/client.svc/ProcessQuery" {
			return nil, fmt.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "text/xml" {
			t.Fatalf("unexpected Content-Type: %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json;odata=nometadata" {
			t.Fatalf("unexpected Accept: %q", got)
		}
		if r.Header.Get("X-ClientService-ClientTag") == "" {
			t.Fatal("missing client tag header")
		}
		if r.Header.Get("X-RequestDigest") != "" {
			t.Fatal("plain query must not carry a request digest")
		}

		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), servicePrincipalTypeID) {
			t.Fatalf("payload does not address the service principal: %s", body)
		}

		return jsonResponse(`[
			{"SchemaVersion":"15.0.0.0","LibraryVersion":"16.0.7324.1200","ErrorInfo":null,"TraceCorrelationId":"b33a489e-0a8f-4000-ba5f-66eef8b79ca0"},
			2,{"IsNull":false},
			3,{"_ObjectType_":"Microsoft.Online.SharePoint.TenantAdministration.Internal.SPOWebAppServicePrincipal","AccountEnabled":true,"AppId":"a1b2c3","ReplyUrls":["https://contoso.sharepoint.com"],"ThirdPartyAppIds":null}
		]`), nil
	}}

	client := newTestClient(t, doer)
	principal, err := client.GetServicePrincipal(context.Background())
	if err != nil {
		t.Fatalf("get service principal: %v", err)
	}
	if !principal.AccountEnabled || principal.AppID != "a1b2c3" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if len(principal.ReplyURLs) != 1 || principal.ReplyURLs[0] != "https://contoso.sharepoint.com" {
		t.Fatalf("unexpected reply urls: %+v", principal.ReplyURLs)
	}
	if _, ok := principal.Properties["_ObjectType_"]; ok {
		t.Fatal("type tag not stripped from properties")
	}
	if principal.Properties["AppId"] != "a1b2c3" {
		t.Fatalf("unexpected properties: %+v", principal.Properties)
	}
	// Fields the struct does not model still reach the output.
	if _, ok := principal.Properties["ThirdPartyAppIds"]; !ok {
		t.Fatalf("server-only field dropped from properties: %+v", principal.Properties)
	}
}

func TestSetServicePrincipalEnabled_FetchesDigestFirst(t *testing.T) {
	t.Parallel()

	var requests []string
	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		requests = append(requests, r.URL.Path)
		switch r.URL.Path {
		case "/_api/contextinfo":
			if r.Method != http.MethodPost {
				t.Fatalf("contextinfo must be a POST, got %s", r.Method)
			}
			return jsonResponse(`{"FormDigestTimeoutSeconds":1800,"FormDigestValue":"0x1234,26 Aug 2026 10:00:00 -0000","WebFullUrl":"https://contoso-admin.sharepoint.com"}`), nil
		case "/_vti_bin/client.svc/ProcessQuery":
			if got := r.Header.Get("X-RequestDigest"); got != "0x1234,26 Aug 2026 10:00:00 -0000" {
				t.Fatalf("unexpected digest header: %q", got)
			}
			body, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(body), `<Parameter Type="Boolean">true</Parameter>`) {
				t.Fatalf("payload does not enable the principal: %s", body)
			}
			return jsonResponse(`[
				{"SchemaVersion":"15.0.0.0","LibraryVersion":"16.0.7324.1200","ErrorInfo":null,"TraceCorrelationId":"ee5a489e-a0e3-4000-ba5f-d0d435cc1234"},
				30,{"_ObjectType_":"Microsoft.Online.SharePoint.TenantAdministration.Internal.SPOWebAppServicePrincipal","AccountEnabled":true,"AppId":"a1b2c3","ReplyUrls":[]}
			]`), nil
		default:
			return nil, fmt.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
	}}

	client := newTestClient(t, doer)
	principal, err := client.SetServicePrincipalEnabled(context.Background(), true)
	if err != nil {
		t.Fatalf("enable service principal: %v", err)
	}
	if !principal.AccountEnabled {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	if len(requests) != 2 || requests[0] != "/_api/contextinfo" || requests[1] != "/_vti_bin/client.svc/ProcessQuery" {
		t.Fatalf("expected digest fetch before mutation, got %v", requests)
	}
}

func TestProcessQuery_ErrorInfoBecomesAPIError(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		return jsonResponse(`[
			{"SchemaVersion":"15.0.0.0","LibraryVersion":"16.0.7324.1200","ErrorInfo":{"ErrorMessage":"Access denied.","ErrorValue":null,"TraceCorrelationId":"aa5a489e-c033-4000-ba5f-4bf4cb232c21","ErrorCode":-2147024891,"ErrorTypeName":"System.UnauthorizedAccessException"},"TraceCorrelationId":"aa5a489e-c033-4000-ba5f-4bf4cb232c21"}
		]`), nil
	}}

	client := newTestClient(t, doer)
	_, err := client.GetHideDefaultThemes(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Info.ErrorMessage != "Access denied." {
		t.Fatalf("unexpected error message: %q", apiErr.Info.ErrorMessage)
	}
	if !strings.Contains(apiErr.Error(), "System.UnauthorizedAccessException") {
		t.Fatalf("expected type name in error text, got %q", apiErr.Error())
	}
	if !strings.Contains(apiErr.Error(), "aa5a489e-c033-4000-ba5f-4bf4cb232c21") {
		t.Fatalf("expected trace id in error text, got %q", apiErr.Error())
	}
}

func TestGetTenantCdnEnabled_ScalarResult(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `<Parameter Type="Enum">1</Parameter>`) {
			t.Fatalf("payload does not select the private CDN: %s", body)
		}
		return jsonResponse(`[
			{"SchemaVersion":"15.0.0.0","LibraryVersion":"16.0.7324.1200","ErrorInfo":null,"TraceCorrelationId":"cc5a489e-70a2-4000-ba5f-0e0c4f0e0a11"},
			3,true
		]`), nil
	}}

	client := newTestClient(t, doer)
	enabled, err := client.GetTenantCdnEnabled(context.Background(), CdnTypePrivate)
	if err != nil {
		t.Fatalf("get cdn enabled: %v", err)
	}
	if !enabled {
		t.Fatal("expected CDN to be reported enabled")
	}
}

func TestListThemes_ParsesChildItems(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		return jsonResponse(`[
			{"SchemaVersion":"15.0.0.0","LibraryVersion":"16.0.7324.1200","ErrorInfo":null,"TraceCorrelationId":"dd5a489e-70a2-4000-ba5f-0e0c4f0e0a12"},
			3,{"_ObjectType_":"Microsoft.Online.SharePoint.TenantManagement.ThemeProperties[]","_Child_Items_":[
				{"_ObjectType_":"Microsoft.Online.SharePoint.TenantManagement.ThemeProperties","Name":"Contoso Blue","IsInverted":false,"Palette":{"themePrimary":"#0078d4","themeDark":"#005a9e"}}
			]}
		]`), nil
	}}

	client := newTestClient(t, doer)
	themes, err := client.ListThemes(context.Background())
	if err != nil {
		t.Fatalf("list themes: %v", err)
	}
	if len(themes) != 1 || themes[0].Name != "Contoso Blue" {
		t.Fatalf("unexpected themes: %+v", themes)
	}
	if themes[0].Palette["themePrimary"] != "#0078d4" {
		t.Fatalf("unexpected palette: %+v", themes[0].Palette)
	}
}

func TestListExternalUsers_PayloadAndPaging(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		body, _ := io.ReadAll(r.Body)
		payload := string(body)
		if !strings.Contains(payload, office365TenantTypeID) {
			t.Fatalf("payload does not address Office365Tenant: %s", payload)
		}
		if !strings.Contains(payload, `<Parameter Type="Int32">2</Parameter><Parameter Type="Int32">25</Parameter>`) {
			t.Fatalf("payload does not carry position and page size: %s", payload)
		}
		if !strings.Contains(payload, `<Parameter Type="String">contoso &amp; partners</Parameter>`) {
			t.Fatalf("filter is not XML-escaped: %s", payload)
		}
		return jsonResponse(`[
			{"SchemaVersion":"15.0.0.0","LibraryVersion":"16.0.7324.1200","ErrorInfo":null,"TraceCorrelationId":"ee5a489e-70a2-4000-ba5f-0e0c4f0e0a13"},
			5,{"_ObjectType_":"Microsoft.Online.SharePoint.TenantManagement.GetExternalUsersResults","TotalUserCount":51,"UserCollectionPosition":2,
			"ExternalUserCollection":{"_ObjectType_":"Microsoft.Online.SharePoint.TenantManagement.ExternalUserCollection","_Child_Items_":[
				{"_ObjectType_":"Microsoft.Online.SharePoint.TenantManagement.ExternalUser","DisplayName":"Megan Bowen","AcceptedAs":"megan@fabrikam.com","InvitedAs":"megan@fabrikam.com","InvitedBy":"admin@contoso.com","WhenCreated":"2026-05-02T10:16:38","UniqueId":"10033FFF8524CF2C","UserId":12,"IsCrossTenant":false}
			]}}
		]`), nil
	}}

	client := newTestClient(t, doer)
	page, err := client.ListExternalUsers(context.Background(), ExternalUserQuery{
		Filter:   "contoso & partners",
		Position: 2,
		PageSize: 25,
	})
	if err != nil {
		t.Fatalf("list external users: %v", err)
	}
	if page.TotalUserCount != 51 || len(page.ExternalUserCollection) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.ExternalUserCollection[0].DisplayName != "Megan Bowen" {
		t.Fatalf("unexpected user: %+v", page.ExternalUserCollection[0])
	}
}

func TestListExternalUsers_RejectsBadPagingLocally(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		t.Fatal("no HTTP call expected for invalid paging")
		return nil, nil
	}}

	client := newTestClient(t, doer)
	if _, err := client.ListExternalUsers(context.Background(), ExternalUserQuery{PageSize: 51}); err == nil {
		t.Fatal("expected page size validation error")
	}
	if _, err := client.ListExternalUsers(context.Background(), ExternalUserQuery{PageSize: 10, Position: -1}); err == nil {
		t.Fatal("expected position validation error")
	}
}

func TestRequestDigest_MissingValue(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		return jsonResponse(`{"FormDigestTimeoutSeconds":1800}`), nil
	}}

	client := newTestClient(t, doer)
	if _, err := client.RequestDigest(context.Background(), client.SiteURL()); err == nil {
		t.Fatal("expected error for missing FormDigestValue")
	}
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(ClientConfig{Tokens: staticTokens{}}); err == nil {
		t.Fatal("expected error for missing site URL")
	}
	if _, err := NewClient(ClientConfig{SiteURL: "https://contoso-admin.sharepoint.com"}); err == nil {
		t.Fatal("expected error for missing token provider")
	}
	if _, err := NewClient(ClientConfig{SiteURL: "not a url", Tokens: staticTokens{}}); err == nil {
		t.Fatal("expected error for invalid site URL")
	}
}

func TestNonSuccessStatusIncludesBodyPreview(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusForbidden,
			Body:       io.NopCloser(strings.NewReader("token expired")),
			Header:     make(http.Header),
		}, nil
	}}

	client := newTestClient(t, doer)
	_, err := client.GetServicePrincipal(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "token expired") {
		t.Fatalf("expected status and body in error, got %v", err)
	}
}

func TestSetTheme_SerializesPalette(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		switch r.URL.Path {
		case "/_api/contextinfo":
			return jsonResponse(`{"FormDigestValue":"0xDIGEST","FormDigestTimeoutSeconds":1800}`), nil
		case "/_vti_bin/client.svc/ProcessQuery":
			body, _ := io.ReadAll(r.Body)
			payload := string(body)
			if !strings.Contains(payload, "UpdateTenantTheme") {
				t.Fatalf("payload does not call UpdateTenantTheme: %s", payload)
			}
			if !strings.Contains(payload, "&#34;themePrimary&#34;:&#34;#0078d4&#34;") {
				t.Fatalf("palette JSON is not XML-escaped into the payload: %s", payload)
			}
			if !strings.Contains(payload, "&#34;isInverted&#34;:true") {
				t.Fatalf("inverted flag not serialized into the theme JSON: %s", payload)
			}
			return jsonResponse(`[
				{"SchemaVersion":"15.0.0.0","LibraryVersion":"16.0.7324.1200","ErrorInfo":null,"TraceCorrelationId":"ff5a489e-70a2-4000-ba5f-0e0c4f0e0a14"},
				3,true
			]`), nil
		default:
			return nil, fmt.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
	}}

	client := newTestClient(t, doer)
	err := client.SetTheme(context.Background(), ThemeInfo{
		Name:       "Contoso Blue",
		IsInverted: true,
		Palette:    ThemePalette{"themePrimary": "#0078d4"},
	})
	if err != nil {
		t.Fatalf("set theme: %v", err)
	}
}

func TestGetTheme_NotFound(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		return jsonResponse(`[
			{"SchemaVersion":"15.0.0.0","LibraryVersion":"16.0.7324.1200","ErrorInfo":null,"TraceCorrelationId":"005a489e-70a2-4000-ba5f-0e0c4f0e0a15"},
			3,{"_ObjectType_":"Microsoft.Online.SharePoint.TenantManagement.ThemeProperties[]","_Child_Items_":[]}
		]`), nil
	}}

	client := newTestClient(t, doer)
	if _, err := client.GetTheme(context.Background(), "Missing"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestParseThemePalette(t *testing.T) {
	t.Parallel()

	palette, err := ParseThemePalette([]byte(`{"themePrimary":"#0078d4"}`))
	if err != nil {
		t.Fatalf("parse palette: %v", err)
	}
	if palette["themePrimary"] != "#0078d4" {
		t.Fatalf("unexpected palette: %+v", palette)
	}

	if _, err := ParseThemePalette([]byte(`{}`)); err == nil {
		t.Fatal("expected error for empty palette")
	}
	if _, err := ParseThemePalette([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestStorageEntities_ListAndMutate(t *testing.T) {
	t.Parallel()

	index := map[string]storedEntity{
		"AnalyticsId": {Value: "UA-123-1", Description: "Analytics key", Comment: "managed by IT"},
	}
	encodedIndex, _ := json.Marshal(index)

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/sites/appcatalog/_api/web/AllProperties":
			if got := r.URL.Query().Get("$select"); got != "storageentitiesindex" {
				t.Fatalf("unexpected $select: %q", got)
			}
			response, _ := json.Marshal(map[string]string{"storageentitiesindex": string(encodedIndex)})
			return jsonResponse(string(response)), nil
		case r.URL.Path == "/sites/appcatalog/_api/contextinfo":
			return jsonResponse(`{"FormDigestValue":"0xDIGEST","FormDigestTimeoutSeconds":1800}`), nil
		case r.URL.Path == "/sites/appcatalog/_vti_bin/client.svc/ProcessQuery":
			body, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(body), "RemoveStorageEntity") {
				t.Fatalf("payload does not call RemoveStorageEntity: %s", body)
			}
			return jsonResponse(`[
				{"SchemaVersion":"15.0.0.0","LibraryVersion":"16.0.7324.1200","ErrorInfo":null,"TraceCorrelationId":"115a489e-70a2-4000-ba5f-0e0c4f0e0a16"}
			]`), nil
		default:
			return nil, fmt.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
	}}

	client := newTestClient(t, doer)
	appCatalog := "https://contoso.sharepoint.com/sites/appcatalog"

	entities, err := client.ListStorageEntities(context.Background(), appCatalog)
	if err != nil {
		t.Fatalf("list storage entities: %v", err)
	}
	if len(entities) != 1 || entities["AnalyticsId"].Value != "UA-123-1" {
		t.Fatalf("unexpected entities: %+v", entities)
	}

	entity, err := client.GetStorageEntity(context.Background(), appCatalog, "AnalyticsId")
	if err != nil {
		t.Fatalf("get storage entity: %v", err)
	}
	if entity.Description != "Analytics key" {
		t.Fatalf("unexpected entity: %+v", entity)
	}

	if _, err := client.GetStorageEntity(context.Background(), appCatalog, "Missing"); err == nil {
		t.Fatal("expected not-found error")
	}

	if err := client.RemoveStorageEntity(context.Background(), appCatalog, "AnalyticsId"); err != nil {
		t.Fatalf("remove storage entity: %v", err)
	}
}
