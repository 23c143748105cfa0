package config

import (
	"fmt"
	"os"

	"github.com/adelossa/pregame/internal/domain"
	"gopkg.in/yaml.v3"
)

// catalogFile es el formato YAML del catálogo de equipos:
//
//	teams:
//	  Manchester City: ["Man City", "Manchester City"]
//	  Chelsea: ["Chelsea"]
type catalogFile struct {
	Teams map[string][]string `yaml:"teams"`
}

// LoadCatalog construye el catálogo de equipos. Con path vacío devuelve el
// catálogo EPL embebido; si no, lo carga del archivo YAML. En ambos casos
// valida la invariante de aliases disjuntos — un catálogo con colisiones
// produce MatchKeys incorrectos en silencio, así que aquí sí abortamos.
func LoadCatalog(path string) (*domain.Catalog, error) {
	var catalog *domain.Catalog

	if path == "" {
		catalog = domain.PremierLeague()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.LoadCatalog: read %q: %w", path, err)
		}

		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("config.LoadCatalog: parse YAML: %w", err)
		}
		if len(file.Teams) == 0 {
			return nil, fmt.Errorf("config.LoadCatalog: %q no define equipos", path)
		}
		catalog = domain.NewCatalogFromMap(file.Teams)
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("config.LoadCatalog: %w", err)
	}
	return catalog, nil
}
