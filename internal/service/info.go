package service

// Info describes the running configuration
type Info struct {
	ServerName      string   `json:"server_name"`
	Version         string   `json:"version"`
	FormDirectory   string   `json:"form_directory"`
	OutputDirectory string   `json:"output_directory"`
	StoreDirectory  string   `json:"store_directory"`
	RootClass       string   `json:"root_class"`
	Strategies      []string `json:"strategies"`
	Clipboard       bool     `json:"clipboard"`
	Catalog         string   `json:"catalog,omitempty"`
	CatalogEntries  int      `json:"catalog_entries"`
	MaxFileSize     int64    `json:"max_file_size"`
}

// Info reports the configuration the service runs with. An unreadable
// catalog reports zero entries.
func (s *Service) Info() Info {
	info := Info{
		ServerName:      s.cfg.ServerName,
		Version:         s.cfg.Version,
		FormDirectory:   s.forms.BaseDirectory(),
		OutputDirectory: s.cfg.OutputDirectory,
		StoreDirectory:  s.cfg.StoreDirectory,
		RootClass:       s.cfg.RootClass,
		Strategies:      s.Strategies(),
		Clipboard:       s.cfg.Clipboard,
		Catalog:         s.cfg.CatalogPath,
		MaxFileSize:     s.cfg.MaxFileSize,
	}
	if c, err := s.catalogFile(); err == nil {
		info.CatalogEntries = len(c)
	}
	return info
}
