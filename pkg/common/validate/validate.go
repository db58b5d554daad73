// Package validate runs request validation explicitly, before any
// persistence call, and collects every failure into a field → messages map.
//
// Rules follow the familiar "required|string|max:255" vocabulary:
//
//	v := validate.New(in)
//	v.Field("title").Required().Text().Max(255)
//	v.Field("duration").Sometimes().Integer().Min(0)
//	if err := v.Err(); err != nil { ... }
package validate

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "music-hub/pkg/common/errors"
	"music-hub/pkg/common/storage"
)

// Input holds the fields and files actually sent with a request. A key
// absent from the map was not sent at all; an empty string was sent empty.
type Input struct {
	values  map[string]string
	files   map[string]*storage.Upload
	nonText map[string]bool
}

func NewInput(values map[string]string) *Input {
	if values == nil {
		values = map[string]string{}
	}
	return &Input{values: values, files: map[string]*storage.Upload{}, nonText: map[string]bool{}}
}

// MarkNonText records that key arrived as a number, boolean, array or
// object rather than a string.
func (in *Input) MarkNonText(key string) {
	in.nonText[key] = true
}

func (in *Input) Get(key string) (string, bool) {
	v, ok := in.values[key]
	return v, ok
}

func (in *Input) Value(key string) string {
	return in.values[key]
}

func (in *Input) Has(key string) bool {
	_, ok := in.values[key]
	return ok
}

// Filled reports whether key was sent with a non-blank value.
func (in *Input) Filled(key string) bool {
	v, ok := in.values[key]
	return ok && strings.TrimSpace(v) != ""
}

func (in *Input) SetFile(key string, u *storage.Upload) {
	in.files[key] = u
}

func (in *Input) File(key string) *storage.Upload {
	return in.files[key]
}

// Values returns a copy of the scalar fields, for logging.
func (in *Input) Values() map[string]string {
	out := make(map[string]string, len(in.values))
	for k, v := range in.values {
		out[k] = v
	}
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// ParseDate accepts the date formats clients commonly send.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type Validator struct {
	in   *Input
	errs *apperrors.ValidationError
}

func New(in *Input) *Validator {
	return &Validator{in: in, errs: apperrors.NewValidationError()}
}

// Fail records a message against field directly, e.g. for uniqueness checks.
func (v *Validator) Fail(field, msg string) {
	v.errs.Add(field, msg)
}

// Err returns the collected *errors.ValidationError, or nil.
func (v *Validator) Err() error {
	return v.errs.OrNil()
}

func (v *Validator) Field(name string) *Rule {
	return &Rule{v: v, name: name}
}

// Rule is a chain of checks on one field. The chain stops at the first
// failure, or silently when the field is absent and optional.
type Rule struct {
	v    *Validator
	name string
	done bool
}

func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func (r *Rule) fail(format string, args ...interface{}) *Rule {
	r.v.errs.Add(r.name, fmt.Sprintf(format, args...))
	r.done = true
	return r
}

func (r *Rule) value() string {
	return r.v.in.Value(r.name)
}

func (r *Rule) Required() *Rule {
	if r.done {
		return r
	}
	if !r.v.in.Filled(r.name) {
		return r.fail("The %s field is required.", label(r.name))
	}
	return r
}

// Sometimes skips the remaining checks when the field was not sent.
func (r *Rule) Sometimes() *Rule {
	if !r.v.in.Has(r.name) {
		r.done = true
	}
	return r
}

// Nullable skips the remaining checks when the field is absent or empty.
func (r *Rule) Nullable() *Rule {
	if !r.v.in.Filled(r.name) {
		r.done = true
	}
	return r
}

func (r *Rule) Text() *Rule {
	if r.done {
		return r
	}
	if r.v.in.nonText[r.name] || !utf8.ValidString(r.value()) {
		return r.fail("The %s field must be a string.", label(r.name))
	}
	return r
}

func (r *Rule) Max(n int) *Rule {
	if r.done {
		return r
	}
	if utf8.RuneCountInString(r.value()) > n {
		return r.fail("The %s field must not be greater than %d characters.", label(r.name), n)
	}
	return r
}

// MaxBytes caps the encoded length, for values with a byte-sized limit.
func (r *Rule) MaxBytes(n int) *Rule {
	if r.done {
		return r
	}
	if len(r.value()) > n {
		return r.fail("The %s field must not be greater than %d bytes.", label(r.name), n)
	}
	return r
}

func (r *Rule) MinLen(n int) *Rule {
	if r.done {
		return r
	}
	if utf8.RuneCountInString(r.value()) < n {
		return r.fail("The %s field must be at least %d characters.", label(r.name), n)
	}
	return r
}

func (r *Rule) Email() *Rule {
	if r.done {
		return r
	}
	addr, err := mail.ParseAddress(r.value())
	if err != nil || addr.Address != strings.TrimSpace(r.value()) {
		return r.fail("The %s field must be a valid email address.", label(r.name))
	}
	return r
}

func (r *Rule) Date() *Rule {
	if r.done {
		return r
	}
	if _, ok := ParseDate(r.value()); !ok {
		return r.fail("The %s field must be a valid date.", label(r.name))
	}
	return r
}

func (r *Rule) Integer() *Rule {
	if r.done {
		return r
	}
	if _, err := strconv.Atoi(strings.TrimSpace(r.value())); err != nil {
		return r.fail("The %s field must be an integer.", label(r.name))
	}
	return r
}

// Min checks an integer lower bound; use after Integer.
func (r *Rule) Min(n int) *Rule {
	if r.done {
		return r
	}
	if i, err := strconv.Atoi(strings.TrimSpace(r.value())); err == nil && i < n {
		return r.fail("The %s field must be at least %d.", label(r.name), n)
	}
	return r
}

// Image validates an optional uploaded image no larger than maxKB kilobytes.
func (r *Rule) Image(maxKB int) *Rule {
	if r.done {
		return r
	}
	u := r.v.in.File(r.name)
	if u == nil {
		r.done = true
		return r
	}
	if _, err := u.Format(); err != nil {
		return r.fail("The %s field must be an image.", label(r.name))
	}
	if u.Size() > maxKB*1024 {
		return r.fail("The %s field must not be greater than %d kilobytes.", label(r.name), maxKB)
	}
	return r
}

// Taken formats the uniqueness failure message for field.
func Taken(field string) string {
	return fmt.Sprintf("The %s has already been taken.", label(field))
}
