package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Canonical JSON keys of a Profile document. Report generators depend on the
// exact spelling, including the slash in the experience key.
const (
	KeyName              = "Name"
	KeyEmail             = "Email"
	KeyPhone             = "Phone"
	KeyEducation         = "Education"
	KeySkills            = "Skills"
	KeyProjects          = "Projects"
	KeyCertifications    = "Certifications"
	KeyExperience        = "Internships / Work experience"
	KeyDomainOfExpertise = "Domain of expertise"
)

// ProfileKeys lists the canonical keys in serialisation order.
var ProfileKeys = []string{
	KeyName,
	KeyEmail,
	KeyPhone,
	KeyEducation,
	KeySkills,
	KeyProjects,
	KeyCertifications,
	KeyExperience,
	KeyDomainOfExpertise,
}

// profileAliases maps normalised key spellings a model commonly produces onto canonical keys.
var profileAliases = map[string]string{
	"name":                      KeyName,
	"fullname":                  KeyName,
	"candidatename":             KeyName,
	"email":                     KeyEmail,
	"emailaddress":              KeyEmail,
	"mail":                      KeyEmail,
	"phone":                     KeyPhone,
	"phonenumber":               KeyPhone,
	"mobile":                    KeyPhone,
	"contactnumber":             KeyPhone,
	"education":                 KeyEducation,
	"skills":                    KeySkills,
	"skillset":                  KeySkills,
	"technicalskills":           KeySkills,
	"projects":                  KeyProjects,
	"certifications":            KeyCertifications,
	"certificates":              KeyCertifications,
	"certification":             KeyCertifications,
	"internshipsworkexperience": KeyExperience,
	"workexperience":            KeyExperience,
	"experience":                KeyExperience,
	"internships":               KeyExperience,
	"employment":                KeyExperience,
	"workhistory":               KeyExperience,
	"domainofexpertise":         KeyDomainOfExpertise,
	"domain":                    KeyDomainOfExpertise,
	"expertise":                 KeyDomainOfExpertise,
	"areaofexpertise":           KeyDomainOfExpertise,
}

// Profile is the structured candidate record extracted from a resume or profile text.
//
// A nil field means the source did not contain it. Skills, Projects and
// Certifications distinguish nil (absent) from an empty, non-nil slice (present
// but empty). Keys the model returned that are not part of the profile are kept
// verbatim in Extra and written back out on serialisation.
type Profile struct {
	Name              *string
	Email             *string
	Phone             *string
	Education         *Section[EducationEntry]
	Skills            []string
	Projects          []ProjectEntry
	Certifications    []string
	Experience        *Section[ExperienceEntry]
	DomainOfExpertise *string
	Extra             map[string]json.RawMessage
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// StringValue returns the pointed-to string, or "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Has reports whether the canonical field key is present.
func (p *Profile) Has(key string) bool {
	switch key {
	case KeyName:
		return p.Name != nil
	case KeyEmail:
		return p.Email != nil
	case KeyPhone:
		return p.Phone != nil
	case KeyEducation:
		return p.Education != nil
	case KeySkills:
		return p.Skills != nil
	case KeyProjects:
		return p.Projects != nil
	case KeyCertifications:
		return p.Certifications != nil
	case KeyExperience:
		return p.Experience != nil
	case KeyDomainOfExpertise:
		return p.DomainOfExpertise != nil
	default:
		_, ok := p.Extra[key]
		return ok
	}
}

// UnmarshalJSON decodes a profile document leniently.
//
// Canonical keys are matched exactly first. Remaining keys are matched by a
// normalised spelling ("work_experience", "skillSet") and fill a field only if
// it is still unset; anything else is kept in Extra.
func (p *Profile) UnmarshalJSON(data []byte) error {
	members, err := objectMembers(data)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	*p = Profile{}
	assigned := make(map[string]bool, len(ProfileKeys))
	canonical := make(map[string]bool, len(ProfileKeys))
	for _, key := range ProfileKeys {
		canonical[key] = true
	}

	for _, m := range members {
		if !canonical[m.Key] {
			continue
		}
		if err := p.assign(m.Key, m.Value); err != nil {
			return err
		}
		assigned[m.Key] = true
	}

	for _, m := range members {
		if canonical[m.Key] {
			continue
		}
		if target, ok := profileAliases[normalizeKey(m.Key)]; ok && !assigned[target] {
			if err := p.assign(target, m.Value); err != nil {
				return err
			}
			assigned[target] = true
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[m.Key] = append(json.RawMessage(nil), m.Value...)
	}
	return nil
}

func (p *Profile) assign(key string, raw json.RawMessage) error {
	var err error
	switch key {
	case KeyName:
		p.Name, err = decodeScalar(raw)
	case KeyEmail:
		p.Email, err = decodeScalar(raw)
	case KeyPhone:
		p.Phone, err = decodeScalar(raw)
	case KeyEducation:
		p.Education, err = decodeSection(raw, decodeEducationEntry)
	case KeySkills:
		p.Skills, err = decodeStringList(raw, splitSkills)
	case KeyProjects:
		p.Projects, err = decodeProjects(raw)
	case KeyCertifications:
		p.Certifications, err = decodeStringList(raw, splitLines)
	case KeyExperience:
		p.Experience, err = decodeSection(raw, decodeExperienceEntry)
	case KeyDomainOfExpertise:
		p.DomainOfExpertise, err = decodeScalar(raw)
	}
	if err != nil {
		return &FieldDecodeError{Field: key, Cause: err}
	}
	return nil
}

// MarshalJSON writes present fields under their canonical keys in canonical
// order, followed by extra keys in sorted order.
func (p Profile) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true

	write := func(key string, value any) error {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %q: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		encodedKey, _ := json.Marshal(key)
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encoded)
		return nil
	}

	for _, key := range ProfileKeys {
		if !p.Has(key) {
			continue
		}
		if err := write(key, p.value(key)); err != nil {
			return nil, err
		}
	}
	for _, key := range sortedKeys(p.Extra) {
		if _, isCanonical := profileKeySet[key]; isCanonical {
			continue
		}
		if err := write(key, p.Extra[key]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var profileKeySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ProfileKeys))
	for _, key := range ProfileKeys {
		set[key] = struct{}{}
	}
	return set
}()

func (p *Profile) value(key string) any {
	switch key {
	case KeyName:
		return *p.Name
	case KeyEmail:
		return *p.Email
	case KeyPhone:
		return *p.Phone
	case KeyEducation:
		return p.Education
	case KeySkills:
		return p.Skills
	case KeyProjects:
		return p.Projects
	case KeyCertifications:
		return p.Certifications
	case KeyExperience:
		return p.Experience
	case KeyDomainOfExpertise:
		return *p.DomainOfExpertise
	}
	return nil
}

// FieldDecodeError reports a profile field whose value could not be interpreted.
type FieldDecodeError struct {
	Field string
	Cause error
}

func (e *FieldDecodeError) Error() string {
	return fmt.Sprintf("invalid value for %q: %v", e.Field, e.Cause)
}

func (e *FieldDecodeError) Unwrap() error {
	return e.Cause
}
