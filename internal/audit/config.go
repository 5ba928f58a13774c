package audit

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the audit run configuration, loadable from environment
// variables (POS_ prefix), flags, or YAML config files.
type Config struct {
	CatalogFile string   `usage:"discount catalog JSON file" flag:"catalog"`
	OrderFiles  []string `usage:"gzipped JSON-lines order dump files" flag:"orders"`
	CodesDir    string   `default:"" usage:"directory with promo-code corpus *.gz files (one code per line)" flag:"codes-dir"`
	Output      string   `default:"findings.jsonl" usage:"findings output file (JSON lines)"`
	Bloom       BloomConfig
}

// BloomConfig sizes the promo-code membership filters.
type BloomConfig struct {
	Capacity uint    `default:"10000000" usage:"Expected codes per corpus file"`
	FPR      float64 `default:"0.001" usage:"Bloom filter false-positive rate"`
}

// LoadConfig loads configuration from environment variables, flags, and YAML
// config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "POS",
		Files:     []string{"audit.yaml", "/etc/pos/audit.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.CatalogFile == "" {
		return nil, errors.New("catalog file is required: set --catalog or POS_CATALOG_FILE")
	}
	if len(cfg.OrderFiles) == 0 {
		return nil, errors.New("at least one order dump is required: set --orders or POS_ORDER_FILES")
	}

	return &cfg, nil
}
