package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// TextArray is a pq.StringArray that migrates as text[] on postgres and as plain text on
// other dialects, where the array literal is stored verbatim.
type TextArray pq.StringArray

func (a TextArray) Value() (driver.Value, error) {
	return pq.StringArray(a).Value()
}

func (a *TextArray) Scan(src any) error {
	return (*pq.StringArray)(a).Scan(src)
}

// GormDataType lets the schema parser accept the slice, GormDBDataType picks the column type.
func (TextArray) GormDataType() string {
	return "text"
}

func (TextArray) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
