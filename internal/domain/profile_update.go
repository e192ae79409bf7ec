package domain

import (
	"encoding/json"
	"fmt"
)

// ProfileUpdate is a partial profile change. Nil fields are left untouched;
// list fields, when present, replace the stored list entirely.
type ProfileUpdate struct {
	FullName    *string
	Headline    *string
	Bio         *string
	Location    *string
	Website     *string
	AvatarURL   *string
	Status      *string
	Skills      *[]string
	Experiences *[]Experience
	Education   *[]Education
}

// UnmarshalJSON decodes a partial update. A null text field is treated as
// absent. A list field holding anything other than a JSON array, null
// included, becomes an empty list.
func (u *ProfileUpdate) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: body must be a JSON object", ErrBadRequest)
	}

	texts := []struct {
		key string
		dst **string
	}{
		{"fullName", &u.FullName},
		{"headline", &u.Headline},
		{"bio", &u.Bio},
		{"location", &u.Location},
		{"website", &u.Website},
		{"avatarUrl", &u.AvatarURL},
		{"status", &u.Status},
	}
	for _, t := range texts {
		raw, ok := fields[t.key]
		if !ok || string(raw) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("%w: %s must be a string", ErrBadRequest, t.key)
		}
		*t.dst = &s
	}

	if raw, ok := fields["skills"]; ok {
		u.Skills = coerceList[string](raw)
	}
	if raw, ok := fields["experiences"]; ok {
		u.Experiences = coerceList[Experience](raw)
	}
	if raw, ok := fields["education"]; ok {
		u.Education = coerceList[Education](raw)
	}
	return nil
}

func coerceList[T any](raw json.RawMessage) *[]T {
	items := []T{}
	var decoded []T
	if err := json.Unmarshal(raw, &decoded); err == nil && decoded != nil {
		items = decoded
	}
	return &items
}

// IsEmpty reports whether the update changes nothing
func (u ProfileUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Headline == nil && u.Bio == nil &&
		u.Location == nil && u.Website == nil && u.AvatarURL == nil &&
		u.Status == nil && u.Skills == nil && u.Experiences == nil &&
		u.Education == nil
}

// IsAvatarOnly reports whether avatarUrl is the only field being changed
func (u ProfileUpdate) IsAvatarOnly() bool {
	if u.AvatarURL == nil {
		return false
	}
	rest := u
	rest.AvatarURL = nil
	return rest.IsEmpty()
}

// Apply copies the present fields onto p
func (u ProfileUpdate) Apply(p *Profile) {
	setString(&p.FullName, u.FullName)
	setString(&p.Headline, u.Headline)
	setString(&p.Bio, u.Bio)
	setString(&p.Location, u.Location)
	setString(&p.Website, u.Website)
	setString(&p.AvatarURL, u.AvatarURL)
	setString(&p.Status, u.Status)
	if u.Skills != nil {
		p.Skills = *u.Skills
	}
	if u.Experiences != nil {
		p.Experiences = *u.Experiences
	}
	if u.Education != nil {
		p.Education = *u.Education
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// AvatarUpdate builds an update that only changes the avatar URL
func AvatarUpdate(url string) ProfileUpdate {
	return ProfileUpdate{AvatarURL: &url}
}
