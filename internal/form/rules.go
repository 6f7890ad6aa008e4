package form

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var slugRegexp = regexp.MustCompile(`^[a-z0-9-]+$`)

var (
	errRequired    = validation.NewError("validation_required", "is required")
	errNotURL      = validation.NewError("validation_url", "must be an absolute http(s) URL")
	errNotSlug     = validation.NewError("validation_slug", "may only contain lowercase letters, digits and hyphens")
	errNotInteger  = validation.NewError("validation_integer", "must be a whole number")
	errNegative    = validation.NewError("validation_non_negative", "must be 0 or greater")
	errNotPositive = validation.NewError("validation_positive_id", "must be a positive id")
	errNotBool     = validation.NewError("validation_bool", "must be true or false")
	errNotEmail    = validation.NewError("validation_email", "must be a valid email address")
	errNotDate     = validation.NewError("validation_date", "must be a date formatted as YYYY-MM-DD")
)

// textRules returns the ozzo rules applied to the trimmed string value of f.
// Rules other than Required skip empty values, so optional fields accept "".
func textRules(f Field) []validation.Rule {
	var rules []validation.Rule
	if f.Required {
		rules = append(rules, validation.Required.ErrorObject(errRequired))
	}
	if f.Max > 0 {
		rules = append(rules, validation.RuneLength(0, f.Max).Error(fmt.Sprintf("must be at most %d characters", f.Max)))
	}

	switch f.Kind {
	case KindURL:
		rules = append(rules, validation.By(absoluteURL))
	case KindSlug:
		rules = append(rules, validation.Match(slugRegexp).ErrorObject(errNotSlug))
	case KindEmail:
		rules = append(rules, is.EmailFormat.ErrorObject(errNotEmail))
	case KindDate:
		rules = append(rules, validation.Date(DateLayout).ErrorObject(errNotDate))
	case KindChoice:
		options := make([]interface{}, len(f.Options))
		for i, o := range f.Options {
			options[i] = o
		}
		rules = append(rules, validation.In(options...).Error("must be one of: "+strings.Join(f.Options, ", ")))
	}
	return rules
}

// collect runs every rule on its own so a field reports all of its problems.
func collect(value interface{}, rules []validation.Rule) []string {
	var msgs []string
	for _, rule := range rules {
		if err := validation.Validate(value, rule); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}

func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errNotURL
	}
	return nil
}

func nonNegativeInt(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return errNotInteger
	}
	if n < 0 {
		return errNegative
	}
	return nil
}

func positiveID(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return errNotPositive
	}
	return nil
}

// parseBool accepts the shapes toggles arrive in: bools and checkbox strings.
func parseBool(raw any, def bool) (bool, error) {
	switch v := raw.(type) {
	case nil:
		return def, nil
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "":
			return def, nil
		case "true", "on", "1", "yes":
			return true, nil
		case "false", "off", "0", "no":
			return false, nil
		}
	}
	return false, errNotBool
}
