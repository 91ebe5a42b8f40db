package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/quizdeck/internal/data/db"
)

// StorageCheck reports the SQLite schema version.
type StorageCheck struct {
	db *db.DB
}

// NewStorageCheck creates a new storage check for an open database.
func NewStorageCheck(database *db.DB) *StorageCheck {
	return &StorageCheck{db: database}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if err := c.db.Conn().PingContext(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.db.Path(),
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	st, err := c.db.Status(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "schema",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.db.Path(),
		Status: StatusPass,
	})

	item := CheckItem{
		Label:  "schema",
		Status: StatusPass,
		Detail: fmt.Sprintf("version %d", st.Current),
	}
	if len(st.Pending) > 0 {
		item.Status = StatusWarn
		item.Detail = fmt.Sprintf("version %d, %d migration(s) pending", st.Current, len(st.Pending))
	}
	result.Items = append(result.Items, item)

	return result
}
