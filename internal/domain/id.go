package domain

import (
	"strconv"
	"time"
	"unicode/utf16"
)

const idTimeLayout = "2006-01-02T15:04:05.000Z"

// ArticleID derives a stable article id from the article URL and its
// publication timestamp. Dedup relies on two fetches of the same
// (url, publishedAt) pair producing the same id, across process restarts.
// Distinct URLs hashing to the same id are not detected.
func ArticleID(url string, publishedAt time.Time) string {
	combined := url + "-" + publishedAt.UTC().Format(idTimeLayout)

	// 32-bit rolling hash over UTF-16 code units, wrapping on overflow.
	var h int32
	for _, cu := range utf16.Encode([]rune(combined)) {
		h = h*31 + int32(cu)
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}
