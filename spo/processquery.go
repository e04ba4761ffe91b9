package spo

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// CSOM type ids of the server objects the CLI talks to.
const (
	tenantTypeID           = "{268004ae-ef6b-4e9b-8425-127220d84719}"
	servicePrincipalTypeID = "{104e8f06-1e00-4675-99c6-1b9b504ed8d8}"
	office365TenantTypeID  = "{e45fd516-a408-4ca4-b6dc-268e2f1f0f83}"
	clientContextTypeID    = "{3747adcd-a3c3-41b9-bfab-4a64dd2f1e0a}"
)

const envelopeTemplate = `<Request AddExpandoFieldTypeSuffix="true" SchemaVersion="15.0.0.0" LibraryVersion="16.0.0.0" ApplicationName="office365-cli" xmlns="http://schemas.microsoft.com/sharepoint/clientquery/2009"><Actions>%s</Actions><ObjectPaths>%s</ObjectPaths></Request>`

// envelope wraps actions and object paths in the fixed ProcessQuery request
// frame every command sends.
func envelope(actions, objectPaths string) string {
	return fmt.Sprintf(envelopeTemplate, actions, objectPaths)
}

// escapeXML escapes an option value for inclusion in an envelope.
func escapeXML(value string) string {
	var buf bytes.Buffer
	// xml.EscapeText only fails on a failing writer; bytes.Buffer never does.
	_ = xml.EscapeText(&buf, []byte(value))
	return buf.String()
}

func stringParam(value string) string {
	return `<Parameter Type="String">` + escapeXML(value) + `</Parameter>`
}

func boolParam(value bool) string {
	return `<Parameter Type="Boolean">` + strconv.FormatBool(value) + `</Parameter>`
}

func enumParam(value int) string {
	return `<Parameter Type="Enum">` + strconv.Itoa(value) + `</Parameter>`
}

func nullableStringParam(value string) string {
	if strings.TrimSpace(value) == "" {
		return `<Parameter Type="Null" />`
	}
	return stringParam(value)
}
