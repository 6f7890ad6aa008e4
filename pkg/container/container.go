package container

import (
	"fmt"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/client"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/config"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/domains/cms"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/query"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/resource"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/logger"
)

// ========================================
// ADMIN CONTAINER
// ========================================

// Container holds the admin data layer: one session, one API client and one
// query cache shared by every resource service. There is no package-level
// state; two containers never share cached data.
type Container struct {
	Config   *config.Config
	Session  *client.Session
	API      *client.Client
	Uploader *client.UploadClient
	Queries  *query.Cache
	Registry *resource.Registry
	Services *cms.Services
}

// NewContainer builds the dependency graph in order:
// session -> client -> uploader -> query cache -> services.
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Component("container")
	c := &Container{Config: cfg}

	c.Session = client.NewSession(cfg.API.Token)

	api, err := client.New(client.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Session: c.Session,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	c.API = api
	c.Uploader = client.NewUploadClient(api, cfg.Upload.MaxBytes)

	c.Queries = query.New(query.Options{StaleTime: cfg.Query.StaleTime})
	c.Registry = cms.NewRegistry()
	c.Services = cms.NewServices(api, c.Queries)

	log.Info().
		Str("api", cfg.API.BaseURL).
		Dur("stale_time", cfg.Query.StaleTime).
		Int("resources", len(c.Registry.All())).
		Msg("admin container ready")
	return c, nil
}
