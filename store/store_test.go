package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"

	"github.com/yated/yated-sheets/store"
	"github.com/yated/yated-sheets/store/storetest"
)

const folder = "1AbCdEfGh"

func fixture() []*storetest.Spreadsheet {
	return []*storetest.Spreadsheet{
		{
			ID:       "sheet-hi",
			Name:     "hi",
			MimeType: store.SPREADSHEET,
			Folder:   folder,
			Worksheets: []storetest.Worksheet{
				{Title: "Contacts", Rows: [][]string{{"a", "b"}, {"1", "2"}}},
				{Title: "Archive", Rows: [][]string{{"x"}}},
			},
		},
		{ID: "doc-hi", Name: "hi", MimeType: "application/vnd.google-apps.document", Folder: folder},
		{ID: "sheet-hello", Name: "hello", MimeType: store.SPREADSHEET, Folder: folder},
		{ID: "sheet-hi-2", Name: "HI", MimeType: store.SPREADSHEET, Folder: folder},
		{ID: "sheet-elsewhere", Name: "hi", MimeType: store.SPREADSHEET, Folder: "other"},
		{ID: "sheet-trashed", Name: "hi", MimeType: store.SPREADSHEET, Folder: folder, Trashed: true},
	}
}

func connect(t *testing.T, files ...*storetest.Spreadsheet) (*storetest.Server, *store.Client) {
	t.Helper()

	srv := storetest.NewServer(files...)
	t.Cleanup(srv.Close)

	client, err := srv.Connect(context.Background())
	require.NoError(t, err)

	return srv, client
}

func TestMatch(t *testing.T) {
	files := []*drive.File{
		{Id: "1", Name: "hi", MimeType: store.SPREADSHEET},
		{Id: "2", Name: "hi ", MimeType: store.SPREADSHEET},
		{Id: "3", Name: "hi", MimeType: "application/pdf"},
		nil,
		{Id: "4", Name: "hi", MimeType: store.SPREADSHEET},
	}

	matched := store.Match(files, "hi")

	require.Len(t, matched, 2)
	assert.Equal(t, "1", matched[0].Id)
	assert.Equal(t, "4", matched[1].Id)
}

func TestLocate(t *testing.T) {
	_, client := connect(t, fixture()...)

	id, err := client.Locate(context.Background(), folder, "hi")

	require.NoError(t, err)
	assert.Equal(t, "sheet-hi", id)
}

func TestLocateAcrossPages(t *testing.T) {
	srv, client := connect(t, fixture()...)
	srv.SetPageSize(1)

	id, err := client.Locate(context.Background(), folder, "hi")

	require.NoError(t, err)
	assert.Equal(t, "sheet-hi", id)
	assert.Equal(t, 2, srv.Lists())
}

func TestLocateQuery(t *testing.T) {
	srv, client := connect(t, fixture()...)

	_, err := client.Locate(context.Background(), folder, "hi")
	require.NoError(t, err)

	expected := []string{
		"'1AbCdEfGh' in parents and name = 'hi' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
	}

	assert.Equal(t, expected, srv.Queries())
}

func TestLocateWithQuotedName(t *testing.T) {
	srv, client := connect(t, &storetest.Spreadsheet{
		ID:       "sheet-bob",
		Name:     `Bob's \ list`,
		MimeType: store.SPREADSHEET,
		Folder:   folder,
	})

	id, err := client.Locate(context.Background(), folder, `Bob's \ list`)

	require.NoError(t, err)
	assert.Equal(t, "sheet-bob", id)
	assert.Equal(t, []string{`'1AbCdEfGh' in parents and name = 'Bob\'s \\ list' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false`}, srv.Queries())
}

func TestLocateNotFound(t *testing.T) {
	_, client := connect(t, fixture()...)

	_, err := client.Locate(context.Background(), folder, "goodbye")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLocateAmbiguous(t *testing.T) {
	files := append(fixture(), &storetest.Spreadsheet{
		ID:       "sheet-hi-copy",
		Name:     "hi",
		MimeType: store.SPREADSHEET,
		Folder:   folder,
	})

	_, client := connect(t, files...)

	_, err := client.Locate(context.Background(), folder, "hi")

	require.ErrorIs(t, err, store.ErrAmbiguous)

	var ambiguous *store.AmbiguousError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []string{"sheet-hi", "sheet-hi-copy"}, ambiguous.IDs)
}

func TestLocateUnavailable(t *testing.T) {
	srv, client := connect(t, fixture()...)
	srv.SetFail(true)

	_, err := client.Locate(context.Background(), folder, "hi")

	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestWorksheets(t *testing.T) {
	_, client := connect(t, fixture()...)

	titles, err := client.Worksheets(context.Background(), "sheet-hi")

	require.NoError(t, err)
	assert.Equal(t, []string{"Contacts", "Archive"}, titles)
}

func TestRead(t *testing.T) {
	_, client := connect(t, fixture()...)

	snapshot, err := client.Read(context.Background(), "sheet-hi", "")

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, snapshot.Rows)
	assert.Equal(t, []string{"a", "b"}, snapshot.Header())
	assert.Equal(t, 1, snapshot.Len())
}

func TestReadNamedWorksheet(t *testing.T) {
	_, client := connect(t, fixture()...)

	snapshot, err := client.Read(context.Background(), "sheet-hi", "Archive")

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x"}}, snapshot.Rows)
	assert.Equal(t, 0, snapshot.Len())
}

func TestReadEmpty(t *testing.T) {
	_, client := connect(t, &storetest.Spreadsheet{
		ID:         "empty",
		Name:       "hi",
		MimeType:   store.SPREADSHEET,
		Folder:     folder,
		Worksheets: []storetest.Worksheet{{Title: "Sheet1"}},
	})

	_, err := client.Read(context.Background(), "empty", "")

	assert.ErrorIs(t, err, store.ErrEmpty)
}

func TestReadMissingWorksheet(t *testing.T) {
	_, client := connect(t, fixture()...)

	_, err := client.Read(context.Background(), "sheet-hi", "Nope")

	require.ErrorIs(t, err, store.ErrNotFound)

	var worksheet *store.WorksheetError
	require.ErrorAs(t, err, &worksheet)
	assert.Equal(t, "Nope", worksheet.Title)
}

func TestReadMissingSpreadsheet(t *testing.T) {
	_, client := connect(t, fixture()...)

	_, err := client.Read(context.Background(), "sheet-deleted", "Contacts")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAppend(t *testing.T) {
	srv, client := connect(t, fixture()...)

	err := client.Append(context.Background(), "sheet-hi", "", []string{"3", "4"})
	require.NoError(t, err)

	snapshot, err := client.Read(context.Background(), "sheet-hi", "")
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}}, snapshot.Rows)
	assert.Equal(t, 1, srv.Appends())
}

func TestAppendAfterBlankRow(t *testing.T) {
	_, client := connect(t, &storetest.Spreadsheet{
		ID:       "gappy",
		Name:     "hi",
		MimeType: store.SPREADSHEET,
		Folder:   folder,
		Worksheets: []storetest.Worksheet{
			{Title: "Sheet1", Rows: [][]string{{"h"}, {"1"}, {}, {"3"}}},
		},
	})

	require.NoError(t, client.Append(context.Background(), "gappy", "", []string{"4"}))

	snapshot, err := client.Read(context.Background(), "gappy", "")
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"h"}, {"1"}, {}, {"3"}, {"4"}}, snapshot.Rows)
}

func TestAppendMissingWorksheet(t *testing.T) {
	srv, client := connect(t, fixture()...)

	err := client.Append(context.Background(), "sheet-hi", "Nope", []string{"3", "4"})

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 0, srv.Appends())
}

func TestAppendWorksheetWithQuote(t *testing.T) {
	srv, client := connect(t, &storetest.Spreadsheet{
		ID:       "quoted",
		Name:     "hi",
		MimeType: store.SPREADSHEET,
		Folder:   folder,
		Worksheets: []storetest.Worksheet{
			{Title: "Bob's / list", Rows: [][]string{{"name"}}},
		},
	})

	err := client.Append(context.Background(), "quoted", "Bob's / list", []string{"Nina"})

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"name"}, {"Nina"}}, srv.Rows("quoted", "Bob's / list"))
}

func TestAppendPermissionDenied(t *testing.T) {
	srv, client := connect(t, fixture()...)
	srv.SetReadOnly(true)

	err := client.Append(context.Background(), "sheet-hi", "Contacts", []string{"3", "4"})

	assert.ErrorIs(t, err, store.ErrPermissionDenied)
	assert.Equal(t, 0, srv.Appends())
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, srv.Rows("sheet-hi", "Contacts"))
}
