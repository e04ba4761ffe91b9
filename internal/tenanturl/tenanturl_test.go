package tenanturl

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	normalized, err := Normalize("https://Contoso-Admin.SharePoint.com/")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if normalized != "https://contoso-admin.sharepoint.com" {
		t.Fatalf("unexpected normalized URL: %q", normalized)
	}

	if _, err := Normalize("http://contoso.sharepoint.com"); err == nil {
		t.Fatal("expected error for non-https URL")
	}
	if _, err := Normalize("   "); err == nil {
		t.Fatal("expected error for empty URL")
	}
}

func TestIsAdminSite(t *testing.T) {
	t.Parallel()

	if !IsAdminSite("https://contoso-admin.sharepoint.com") {
		t.Fatal("expected admin site to be recognized")
	}
	if IsAdminSite("https://contoso.sharepoint.com") {
		t.Fatal("expected regular site to be rejected")
	}
	if IsAdminSite("https://contoso.sharepoint.com/sites/admin") {
		t.Fatal("expected site collection path to not count as admin site")
	}
}

func TestAdminSiteFor(t *testing.T) {
	t.Parallel()

	admin, err := AdminSiteFor("https://contoso.sharepoint.com/sites/apps")
	if err != nil {
		t.Fatalf("derive admin site: %v", err)
	}
	if admin != "https://contoso-admin.sharepoint.com" {
		t.Fatalf("unexpected admin site: %q", admin)
	}

	admin, err = AdminSiteFor("https://contoso-admin.sharepoint.com")
	if err != nil {
		t.Fatalf("derive admin site from admin URL: %v", err)
	}
	if admin != "https://contoso-admin.sharepoint.com" {
		t.Fatalf("unexpected admin site: %q", admin)
	}

	if _, err := AdminSiteFor("https://example.org"); err == nil {
		t.Fatal("expected error for non-sharepoint host")
	} else if !strings.Contains(err.Error(), "sharepoint.com") {
		t.Fatalf("expected host hint in error, got %v", err)
	}
}

func TestResource(t *testing.T) {
	t.Parallel()

	resource, err := Resource("https://contoso.sharepoint.com/sites/appcatalog")
	if err != nil {
		t.Fatalf("resource: %v", err)
	}
	if resource != "https://contoso.sharepoint.com" {
		t.Fatalf("unexpected resource: %q", resource)
	}
}
