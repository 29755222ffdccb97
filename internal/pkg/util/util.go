package util

import (
	"fmt"
	"time"

	"github.com/lucsky/cuid"
)

// GenerateTimestampWithPrefix builds a globally unique, roughly sortable
// identifier such as "ST-20240511T102030-ckv9f2".
func GenerateTimestampWithPrefix(prefix string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().UTC().Format("20060102T150405"), cuid.Slug())
}
