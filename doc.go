// Copyright 2026 yated. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package yated-sheets is a small web front end for a single Google Sheets spreadsheet.

yated-sheets finds the spreadsheet by name in a fixed Google Drive folder using a service account, renders the
worksheet as a filterable table and appends rows submitted through a form.

yated-sheets supports the following commands:

  - serve, to run the web UI
  - locate, to print the ID of the spreadsheet in the configured folder
  - get, to download a worksheet as a TSV file
  - append, to append a row to a worksheet
  - version, to display the current version
*/
package sheets
