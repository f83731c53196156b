package store

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
)

// Locate returns the ID of the spreadsheet named 'name' in the Drive folder 'folder'.
//
// Returns ErrNotFound if there is no such spreadsheet, an AmbiguousError if there is more than one and
// ErrUnavailable if the Drive query fails.
func (c *Client) Locate(ctx context.Context, folder, name string) (string, error) {
	query := fmt.Sprintf("'%s' in parents and name = '%s' and mimeType = '%s' and trashed = false",
		escape(folder),
		escape(name),
		SPREADSHEET)

	files := []*drive.File{}
	page := ""

	for {
		call := c.drive.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true)

		if page != "" {
			call.PageToken(page)
		}

		list, err := call.Context(ctx).Do()
		if err != nil {
			return "", wrap(ErrUnavailable, err)
		}

		files = append(files, list.Files...)

		if page = list.NextPageToken; page == "" {
			break
		}
	}

	matched := Match(files, name)

	switch len(matched) {
	case 0:
		return "", fmt.Errorf("no spreadsheet named '%s' in folder %s (%w)", name, folder, ErrNotFound)

	case 1:
		return matched[0].Id, nil

	default:
		ids := make([]string, len(matched))
		for i, f := range matched {
			ids[i] = f.Id
		}

		return "", &AmbiguousError{Name: name, IDs: ids}
	}
}

// Match returns the files that are spreadsheets with exactly the given name, preserving order.
func Match(files []*drive.File, name string) []*drive.File {
	matched := []*drive.File{}
	for _, f := range files {
		if f != nil && f.Name == name && f.MimeType == SPREADSHEET {
			matched = append(matched, f)
		}
	}

	return matched
}

func escape(v string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
}
