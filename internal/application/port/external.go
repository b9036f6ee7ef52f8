package port

import (
	"context"

	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/garyjia/payroll-console/internal/domain/event"
)

// PayrollAPI defines the remote payroll REST backend operations.
// Paths are relative to the configured base URL; the caller's session cookie
// is taken from ctx (see WithSession).
type PayrollAPI interface {
	// Me calls GET /auth/me
	Me(ctx context.Context) (*entity.Identity, error)
	// GetJSON issues a GET and decodes the JSON body into out
	GetJSON(ctx context.Context, path string, out interface{}) error
	// PostJSON issues a POST with a JSON body and decodes the response into out (may be nil)
	PostJSON(ctx context.Context, path string, body interface{}, out interface{}) error
	// Download issues a GET for a binary document
	Download(ctx context.Context, path string) (*entity.PayslipFile, error)
}

// ChatMessenger defines outbound chat notifications
type ChatMessenger interface {
	SendText(ctx context.Context, chatID string, content string) error
}

// Spreadsheet defines tabular export
type Spreadsheet interface {
	// Write renders header and rows into a workbook and returns its bytes
	Write(sheet string, header []string, rows [][]interface{}) ([]byte, error)
}

// DocumentPreviewer renders the first page of a document as an image
type DocumentPreviewer interface {
	PreviewPNG(data []byte) ([]byte, error)
	PageCount(data []byte) (int, error)
}

// EventPublisher receives events for mutations the console forwarded
type EventPublisher interface {
	Publish(ctx context.Context, evt *event.Event) error
}

// PageAuthorizer decides whether any of roles may open the page identified by pageKey
type PageAuthorizer interface {
	Allowed(roles []string, pageKey string) (bool, error)
}
