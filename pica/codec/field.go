package codec

import (
	"strings"

	"github.com/teranos/picadata/errors"
	"github.com/teranos/picadata/pica"
)

// parseFieldHead splits "TAG" or "TAG/OCC" and checks both parts
func parseFieldHead(head string) (tag, occ string, err error) {
	tag = head
	if i := strings.IndexByte(head, '/'); i >= 0 {
		tag, occ = head[:i], head[i+1:]
		if len(occ) < 2 || len(occ) > 3 || !allDigits(occ) {
			return "", "", errors.Newf("invalid occurrence in field %q", head)
		}
	}
	if !validTag(tag) {
		return "", "", errors.Newf("invalid field tag %q", head)
	}
	return tag, occ, nil
}

// validTag accepts [012][0-9][0-9][A-Z@]
func validTag(tag string) bool {
	if len(tag) != 4 {
		return false
	}
	if tag[0] < '0' || tag[0] > '2' || !isDigit(tag[1]) || !isDigit(tag[2]) {
		return false
	}
	return tag[3] == '@' || (tag[3] >= 'A' && tag[3] <= 'Z')
}

// validCode accepts alphanumeric subfield codes
func validCode(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// checkFraming rejects a record whose subfield values contain bytes the
// format uses for framing. The record is checked before anything is written.
func checkFraming(rec *pica.Record, name, forbidden string) error {
	for _, f := range rec.Fields {
		for _, sf := range f.Subfields {
			if i := strings.IndexAny(sf.Value, forbidden); i >= 0 {
				return errors.Markf(errors.ErrWrite,
					"record %s: subfield %s$%c contains byte %#02x, which %s output cannot represent",
					rec.ID, f.Key(), sf.Code, sf.Value[i], name)
			}
		}
	}
	return nil
}

func fieldError(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}
