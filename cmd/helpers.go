package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/YouHengSaang/office365-cli/auth"
	"github.com/YouHengSaang/office365-cli/config"
	"github.com/YouHengSaang/office365-cli/internal/tenanturl"
	"github.com/YouHengSaang/office365-cli/output"
	"github.com/YouHengSaang/office365-cli/spo"
)

const userAgent = "office365-cli/1.0"

var (
	promptInput  io.Reader = os.Stdin
	promptOutput io.Writer = os.Stdout
)

// parseBoolFlag validates string flags that only accept true or false, so
// bad values are rejected before any HTTP call.
func parseBoolFlag(name, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q for --%s: must be true or false", value, name)
	}
}

// confirmPrompt asks the user to type exactly "Y" before a mutating call.
func confirmPrompt(input io.Reader, output io.Writer, message string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("confirmation input is not available")
	}
	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "%s Type Y to confirm: ", message); err != nil {
		return false, fmt.Errorf("write confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return strings.TrimSpace(line) == "Y", nil
		}
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

// ensureConfirmed gates a mutating command behind the prompt unless
// --confirm was passed.
func ensureConfirmed(confirmed bool, message string) error {
	if confirmed {
		return nil
	}
	ok, err := confirmPrompt(promptInput, promptOutput, message)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("aborted: confirmation was not 'Y'")
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	return config.LoadAndValidate()
}

func commandContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	return context.WithTimeout(context.Background(), timeout)
}

func openAuth(cfg *config.Config) (*auth.Store, *auth.Authenticator, error) {
	storePath, err := auth.DefaultStorePath()
	if err != nil {
		return nil, nil, err
	}
	store, err := auth.OpenStore(storePath)
	if err != nil {
		return nil, nil, err
	}
	return store, auth.NewAuthenticator(store, cfg.Auth.ClientID, cfg.Auth.Authority), nil
}

// connectedClient opens the token store and builds a client for the current
// connection. The caller must close the returned store.
func connectedClient(cfg *config.Config) (*auth.Store, auth.Connection, *spo.HTTPClient, error) {
	store, authenticator, err := openAuth(cfg)
	if err != nil {
		return nil, auth.Connection{}, nil, err
	}

	conn, found, err := store.Connection()
	if err != nil {
		_ = store.Close()
		return nil, auth.Connection{}, nil, err
	}
	if !found {
		_ = store.Close()
		return nil, auth.Connection{}, nil, auth.ErrNotConnected
	}

	client, err := spo.NewClient(spo.ClientConfig{
		SiteURL:           conn.SiteURL,
		Tokens:            authenticator,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		UserAgent:         userAgent,
	})
	if err != nil {
		_ = store.Close()
		return nil, auth.Connection{}, nil, err
	}
	return store, conn, client, nil
}

// adminClient is connectedClient plus the tenant-admin-site requirement
// shared by every tenant-level command.
func adminClient(cfg *config.Config) (*auth.Store, *spo.HTTPClient, error) {
	store, conn, client, err := connectedClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	if !tenanturl.IsAdminSite(conn.SiteURL) {
		_ = store.Close()
		return nil, nil, notAdminSiteError(conn.SiteURL)
	}
	return store, client, nil
}

// notAdminSiteError names the admin site of the connected tenant where it
// can be derived, so the message tells the user exactly where to reconnect.
func notAdminSiteError(siteURL string) error {
	hint := "https://<tenant>-admin.sharepoint.com"
	if adminURL, err := tenanturl.AdminSiteFor(siteURL); err == nil {
		hint = adminURL
	}
	return fmt.Errorf("%s is not a tenant admin site; connect to %s first", siteURL, hint)
}

func resolvedOutputFormat(cfg *config.Config) string {
	if strings.TrimSpace(outputFormat) != "" {
		return outputFormat
	}
	return cfg.Output.Format
}

// isTextFormat reports whether the format renders as text, accepting the
// same spellings the printers accept.
func isTextFormat(format string) bool {
	normalized, err := output.NormalizeFormat(format)
	return err == nil && normalized == output.FormatText
}

// exportTable writes a list result to disk when --outputFile was passed.
func exportTable(table output.Table, filePath, fileFormat string) error {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return nil
	}
	writer, err := output.WriterForFormat(fileFormat)
	if err != nil {
		return err
	}
	if err := writer.Write(filePath, table); err != nil {
		return err
	}
	fmt.Printf("Exported %d row(s) to %s\n", len(table.Rows), filePath)
	return nil
}
