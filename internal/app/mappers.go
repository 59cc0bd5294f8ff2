package app

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"hbnb_web/internal/domain"
)

/********** alias registries (single source of truth) **********/

var placeAliases = map[string][]string{
	"id":          {"id", "place_id"},
	"title":       {"title", "name"},
	"description": {"description"},
}

var personAliases = map[string][]string{
	"id":    {"id", "user_id"},
	"first": {"first_name", "firstName"},
	"last":  {"last_name", "lastName"},
	"email": {"email"},
}

var reviewAliases = map[string][]string{
	"id":      {"id", "review_id"},
	"text":    {"text", "comment", "content"},
	"user_id": {"user_id", "userId", "user.id"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return &f
			}
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// amenityNames accepts []any with either strings or objects; objects use
// their name, or their JSON with braces and quotes stripped.
func amenityNames(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, t)
				}
			case map[string]any:
				if n, ok := t["name"].(string); ok && n != "" {
					out = append(out, n)
					continue
				}
				if txt, ok := rawJSON(t); ok {
					out = append(out, strings.NewReplacer("{", "", "}", "", `"`, "").Replace(txt))
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// rawJSON encodes v without HTML escaping; pages escape on output.
func rawJSON(v any) (string, bool) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", false
	}
	return strings.TrimSuffix(buf.String(), "\n"), true
}

/********** mappers **********/

func mapPerson(m map[string]any) *domain.Owner {
	if m == nil {
		return nil
	}
	o := domain.Owner{
		ID:        firstNonEmptyAlias(m, personAliases, "id"),
		FirstName: firstNonEmptyAlias(m, personAliases, "first"),
		LastName:  firstNonEmptyAlias(m, personAliases, "last"),
		Email:     firstNonEmptyAlias(m, personAliases, "email"),
	}
	if o == (domain.Owner{}) {
		return nil
	}
	return &o
}

func mapPlace(p map[string]any) domain.Place {
	pl := domain.Place{
		ID:          firstNonEmptyAlias(p, placeAliases, "id"),
		Title:       firstNonEmptyAlias(p, placeAliases, "title"),
		Description: firstNonEmptyAlias(p, placeAliases, "description"),
		Latitude:    getFloatFlexible(p, "latitude", "lat"),
		Longitude:   getFloatFlexible(p, "longitude", "lon", "lng"),
		Amenities:   amenityNames(p, "amenities"),
	}
	if f := getFloatFlexible(p, "price", "price_by_night"); f != nil {
		pl.Price = *f
	}
	if owner, ok := lookupAny(p, "owner").(map[string]any); ok {
		pl.Owner = mapPerson(owner)
	}
	return pl
}

func mapPlaces(in []map[string]any) []domain.Place {
	out := make([]domain.Place, 0, len(in))
	for _, p := range in {
		out = append(out, mapPlace(p))
	}
	return out
}

func mapReview(r map[string]any) domain.Review {
	rv := domain.Review{
		ID:     firstNonEmptyAlias(r, reviewAliases, "id"),
		Text:   firstNonEmptyAlias(r, reviewAliases, "text"),
		UserID: firstNonEmptyAlias(r, reviewAliases, "user_id"),
	}
	if f := getFloatFlexible(r, "rating"); f != nil {
		rv.Rating = int(*f)
	}
	if u, ok := lookupAny(r, "user").(map[string]any); ok {
		rv.Author = mapPerson(u)
	}
	return rv
}

func mapUser(m map[string]any) domain.User {
	u := domain.User{
		ID:        firstNonEmptyAlias(m, personAliases, "id"),
		FirstName: firstNonEmptyAlias(m, personAliases, "first"),
		LastName:  firstNonEmptyAlias(m, personAliases, "last"),
		Email:     firstNonEmptyAlias(m, personAliases, "email"),
	}
	if b, ok := m["is_admin"].(bool); ok {
		u.IsAdmin = b
	}
	return u
}
