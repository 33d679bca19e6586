package common

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxSlugSuffix bounds the numeric suffixes tried by NextSlug.
const MaxSlugSuffix = 20

var (
	ErrEmptySlug       = errors.New("slug cannot be empty")
	ErrSlugUnavailable = errors.New("no available slug")
	nonSlugChars       = regexp.MustCompile(`[^a-z0-9]+`)
)

func Slugify(input, fallback string) (string, error) {
	slug := slugify(input)
	if slug == "" {
		slug = slugify(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

// NextSlug returns base if free, then base-1..base-20. taken reports whether
// a candidate is already in use.
func NextSlug(base string, taken func(candidate string) (bool, error)) (string, error) {
	used, err := taken(base)
	if err != nil {
		return "", err
	}
	if !used {
		return base, nil
	}

	for i := 1; i <= MaxSlugSuffix; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w for %q", ErrSlugUnavailable, base)
}

func slugify(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	slug := nonSlugChars.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}
