package health

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opensearch-project/opensearch-go"
)

// OpenSearchChecker is healthy while the cluster health is green or yellow.
type OpenSearchChecker struct {
	client *opensearch.Client
}

// NewOpenSearchChecker creates a new OpenSearch health checker.
func NewOpenSearchChecker(client *opensearch.Client) (*OpenSearchChecker, error) {
	if client == nil {
		return nil, fmt.Errorf("opensearch client: %w", ErrNilBackend)
	}
	return &OpenSearchChecker{client: client}, nil
}

type clusterHealth struct {
	ClusterName   string `json:"cluster_name"`
	Status        string `json:"status"`
	NumberOfNodes int    `json:"number_of_nodes"`
}

// Check reads the cluster health.
func (c *OpenSearchChecker) Check(ctx context.Context) Result {
	res, err := c.client.Cluster.Health(c.client.Cluster.Health.WithContext(ctx))
	if err != nil {
		return Unhealthy("Could not connect to opensearch cluster", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return Unhealthy(fmt.Sprintf("Opensearch cluster health returned %s", res.Status()), nil)
	}

	var health clusterHealth
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return Unhealthy("Could not decode opensearch cluster health", err)
	}

	msg := fmt.Sprintf("Opensearch cluster %s is %s with %d node(s)", health.ClusterName, health.Status, health.NumberOfNodes)
	switch health.Status {
	case "green", "yellow":
		return Healthy(msg)
	default:
		return Unhealthy(msg, nil)
	}
}
