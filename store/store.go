package store

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/yated/yated-sheets/config"
)

const (
	DRIVE  = drive.DriveReadonlyScope
	SHEETS = sheets.SpreadsheetsScope

	SPREADSHEET = "application/vnd.google-apps.spreadsheet"
)

// Client wraps the Drive and Sheets services used to locate, read and append to a spreadsheet.
type Client struct {
	drive  *drive.Service
	sheets *sheets.Service
}

// Connect creates a Client authorised with a service account credential, scoped to read-only Drive
// access and read/write Sheets access.
func Connect(ctx context.Context, credential *config.Credential) (*Client, error) {
	b, err := credential.JSON()
	if err != nil {
		return nil, err
	}

	jwt, err := google.JWTConfigFromJSON(b, DRIVE, SHEETS)
	if err != nil {
		return nil, fmt.Errorf("invalid service account credential (%w)", err)
	}

	return New(ctx, option.WithHTTPClient(jwt.Client(ctx)))
}

// New creates a Client from explicit client options. The same options are applied to both services.
func New(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	gdrive, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Drive client (%w)", err)
	}

	google, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return &Client{
		drive:  gdrive,
		sheets: google,
	}, nil
}
