package openapi

// Spec is an OpenAPI 3.1 document.
type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Tags       []*Tag               `json:"tags,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

// NewSpec starts a document whose info block comes from cfg.
func NewSpec(cfg Config, version string) *Spec {
	info := &Info{
		Title:       cfg.Title,
		Version:     version,
		Description: cfg.Description,
	}
	if cfg.ContactName != "" || cfg.ContactEmail != "" {
		info.Contact = &Contact{Name: cfg.ContactName, Email: cfg.ContactEmail}
	}

	return &Spec{
		OpenAPI:    "3.1.0",
		Info:       info,
		Paths:      make(map[string]*PathItem),
		Components: NewComponents(),
	}
}

// AddServer appends a server URL.
func (s *Spec) AddServer(url string) {
	s.Servers = append(s.Servers, &Server{URL: url})
}

// AddTag declares a tag. Redeclaring a name replaces its description.
func (s *Spec) AddTag(name, description string) {
	for _, t := range s.Tags {
		if t.Name == name {
			t.Description = description
			return
		}
	}
	s.Tags = append(s.Tags, &Tag{Name: name, Description: description})
}
