package distribution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"distrofm/model"

	"github.com/google/uuid"
)

// DeliveryResult is what a platform reports back for a successful delivery.
type DeliveryResult struct {
	ReferenceID string
	URL         string
}

// PlatformGateway performs the actual delivery of a release to one platform.
// Real protocol adapters would live behind this interface; the default
// implementation simulates the call.
type PlatformGateway interface {
	Deliver(ctx context.Context, platform *model.Platform, release *model.Release, tracks []*model.Track) (*DeliveryResult, error)
}

// simulatedGateway fakes a platform API call: it waits for the configured
// latency and fabricates a platform reference id.
type simulatedGateway struct {
	delay time.Duration
}

// NewSimulatedGateway creates the simulated delivery gateway.
func NewSimulatedGateway(delay time.Duration) PlatformGateway {
	return &simulatedGateway{delay: delay}
}

func (g *simulatedGateway) Deliver(ctx context.Context, platform *model.Platform, release *model.Release, tracks []*model.Track) (*DeliveryResult, error) {
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	prefix := strings.ToUpper(platform.Name)
	prefix = strings.ReplaceAll(prefix, " ", "")
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}

	upcPart := "0000"
	if len(release.UPC) >= 4 {
		upcPart = release.UPC[:4]
	}

	referenceID := fmt.Sprintf("%s-%s-%s", prefix, upcPart, uuid.NewString()[:8])
	slug := strings.ReplaceAll(strings.ToLower(platform.Name), " ", "")

	return &DeliveryResult{
		ReferenceID: referenceID,
		URL:         fmt.Sprintf("https://%s.com/release/%s", slug, referenceID),
	}, nil
}
