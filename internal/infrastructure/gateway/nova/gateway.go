package nova

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/servers"
	"github.com/gophercloud/utils/v2/openstack/clientconfig"
	"github.com/rs/zerolog/log"

	"novatail/internal/application/port"
	"novatail/internal/domain/model"
)

// Gateway talks to the Nova compute API. It authenticates once at
// construction and hands out fresh instance snapshots per call; nothing in
// here holds mutable server state between polls.
type Gateway struct {
	compute *gophercloud.ServiceClient
}

// New connects to the named cloud from clouds.yaml. OS_* environment
// variables fill in anything the cloud entry leaves out.
func New(ctx context.Context, cloud string) (*Gateway, error) {
	log.Info().Str("cloud", cloud).Msg("connecting to OpenStack cloud")
	compute, err := clientconfig.NewServiceClient(ctx, "compute", &clientconfig.ClientOpts{Cloud: cloud})
	if err != nil {
		return nil, fmt.Errorf("connect to cloud %q: %w", cloud, err)
	}
	return &Gateway{compute: compute}, nil
}

func (g *Gateway) GetInstance(ctx context.Context, id string) (*model.Instance, error) {
	srv, err := servers.Get(ctx, g.compute, id).Extract()
	if err != nil {
		return nil, mapError("get server", err)
	}
	return &model.Instance{
		ID:         srv.ID,
		Name:       srv.Name,
		PowerState: model.PowerState(srv.PowerState),
	}, nil
}

// GetConsoleOutput dumps the full console buffer. Nova treats a negative
// length as "everything currently buffered".
func (g *Gateway) GetConsoleOutput(ctx context.Context, id string) (string, error) {
	out, err := servers.ShowConsoleOutput(ctx, g.compute, id, servers.ShowConsoleOutputOpts{Length: -1}).Extract()
	if err != nil {
		return "", mapError("show console output", err)
	}
	return out, nil
}

// mapError folds API 404s into the port sentinel so the poll loop can run
// its power-state disambiguation; everything else passes through wrapped.
func mapError(op string, err error) error {
	if gophercloud.ResponseCodeIs(err, http.StatusNotFound) {
		return fmt.Errorf("%s: %w", op, port.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ port.Gateway = (*Gateway)(nil)
