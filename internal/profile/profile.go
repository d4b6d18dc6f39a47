package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Seed is a business fact loaded into the knowledge store at first init.
// IDs must be stable so repeated inits do not duplicate entries.
type Seed struct {
	ID         string   `yaml:"id"`
	Content    string   `yaml:"content"`
	Category   string   `yaml:"category"`
	Confidence float64  `yaml:"confidence"`
	Tags       []string `yaml:"tags"`
}

// Profile bundles everything business-specific: identity, canned response
// templates per intent, the marker keyword lists the learning heuristics key
// off, and the seed knowledge. The engine itself stays business-agnostic.
type Profile struct {
	BusinessName string   `yaml:"business_name"`
	Phone        string   `yaml:"phone"`
	ServiceAreas []string `yaml:"service_areas"`

	// BusinessMarkers are high-trust signals: text mentioning one of these is
	// near-certainly about this business.
	BusinessMarkers []string `yaml:"business_markers"`
	// DomainKeywords mark on-topic industry content.
	DomainKeywords []string `yaml:"domain_keywords"`
	// ServiceKeywords mark text describing offered services.
	ServiceKeywords []string `yaml:"service_keywords"`

	Templates    map[string]string `yaml:"templates"`
	CallToAction string            `yaml:"call_to_action"`

	Seeds []Seed `yaml:"seeds"`
}

// Default returns the compiled-in Jay's Mobile Wash profile.
func Default() *Profile {
	return &Profile{
		BusinessName: "Jay's Mobile Wash",
		Phone:        "562-228-9429",
		ServiceAreas: []string{"Los Angeles", "Orange County"},
		BusinessMarkers: []string{
			"jay's mobile wash",
			"jays mobile wash",
			"562-228-9429",
			"mobile detailing",
			"los angeles",
			"orange county",
		},
		DomainKeywords: []string{
			"detailing",
			"ceramic coating",
			"paint correction",
			"car wash",
		},
		ServiceKeywords: []string{
			"wash",
			"detail",
			"ceramic",
			"coating",
			"paint",
			"interior",
			"exterior",
			"wax",
			"polish",
		},
		Templates: map[string]string{
			"booking":  "We'd love to get you on the schedule! Call or text Jay's Mobile Wash at 562-228-9429 and we'll find a time that works. We come to you anywhere in Los Angeles or Orange County.",
			"pricing":  "Pricing depends on your vehicle's size and condition. For a fast, no-obligation quote, call or text us at 562-228-9429 and we'll get you an exact number.",
			"services": "Jay's Mobile Wash offers full mobile detailing: exterior hand wash, interior deep cleaning, ceramic coating, and paint correction. Everything happens at your driveway.",
			"location": "We're fully mobile and come to you! Jay's Mobile Wash serves all of Los Angeles and Orange County. Call 562-228-9429 to confirm we cover your neighborhood.",
		},
		CallToAction: "Call or text 562-228-9429 to book your mobile detail.",
		Seeds: []Seed{
			{
				ID:         "core_business_info",
				Content:    "Jay's Mobile Wash is a mobile car detailing service. We bring professional detailing to your home or office. Call or text 562-228-9429.",
				Category:   "business_info",
				Confidence: 1.0,
				Tags:       []string{"business", "contact", "phone"},
			},
			{
				ID:         "core_service_areas",
				Content:    "Jay's Mobile Wash serves all of Los Angeles and Orange County, including Long Beach, Beverly Hills, Santa Monica, Anaheim, and Irvine.",
				Category:   "service_areas",
				Confidence: 1.0,
				Tags:       []string{"areas", "los angeles", "orange county"},
			},
			{
				ID:         "core_services",
				Content:    "Services include exterior hand wash, interior detailing, ceramic coating, paint correction, and engine bay cleaning.",
				Category:   "services",
				Confidence: 1.0,
				Tags:       []string{"services", "ceramic", "paint correction"},
			},
			{
				ID:         "core_booking",
				Content:    "Booking is by phone or text at 562-228-9429. Most appointments are available within 48 hours, seven days a week.",
				Category:   "booking",
				Confidence: 1.0,
				Tags:       []string{"booking", "appointment", "phone"},
			},
		},
	}
}

// LoadFile overlays a YAML profile on top of the defaults, so a profile file
// only needs the fields it wants to change.
func LoadFile(path string) (*Profile, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Phone) == "" {
		return fmt.Errorf("profile: phone is required")
	}
	for _, intent := range []string{"booking", "pricing", "services", "location"} {
		if strings.TrimSpace(p.Templates[intent]) == "" {
			return fmt.Errorf("profile: missing template for %s intent", intent)
		}
	}
	return nil
}

// Template returns the canned response for an intent, or "" when none exists.
func (p *Profile) Template(intent string) string {
	return p.Templates[intent]
}
