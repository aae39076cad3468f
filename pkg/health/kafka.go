package health

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=kafka.go -destination=mock_kafka_test.go -package=health

// Node is a member of a Kafka cluster.
type Node struct {
	ID   int
	Host string
	Port int
}

// Cluster describes the topology of a Kafka cluster. Controller is nil when
// the cluster did not report one.
type Cluster struct {
	Controller *Node
	Nodes      []Node
}

// ClusterDescriber describes a Kafka cluster.
type ClusterDescriber interface {
	DescribeCluster(ctx context.Context) (Cluster, error)
}

// KafkaClusterChecker checks that the cluster can be described, a controller
// is known and at least one node is present.
type KafkaClusterChecker struct {
	describer ClusterDescriber
}

// NewKafkaClusterChecker creates a new Kafka cluster health checker.
func NewKafkaClusterChecker(describer ClusterDescriber) (*KafkaClusterChecker, error) {
	if describer == nil {
		return nil, fmt.Errorf("cluster describer: %w", ErrNilBackend)
	}
	return &KafkaClusterChecker{describer: describer}, nil
}

// Check describes the cluster.
func (c *KafkaClusterChecker) Check(ctx context.Context) Result {
	cluster, err := c.describer.DescribeCluster(ctx)
	if err != nil {
		return Unhealthy("Could not connect to kafka cluster", err)
	}

	switch {
	case len(cluster.Nodes) == 0:
		return Unhealthy("Kafka cluster is showing no nodes", nil)
	case cluster.Controller == nil:
		return Unhealthy("Kafka cluster returned without controller", nil)
	default:
		return Healthy(fmt.Sprintf("Connected to kafka cluster with controller %s and %d node(s)",
			cluster.Controller.Host, len(cluster.Nodes)))
	}
}

// KafkaClusterDescriber describes a cluster with a metadata request.
type KafkaClusterDescriber struct {
	client *kafka.Client
}

// NewKafkaClusterDescriber wraps a kafka-go client.
func NewKafkaClusterDescriber(client *kafka.Client) *KafkaClusterDescriber {
	return &KafkaClusterDescriber{client: client}
}

// DescribeCluster fetches cluster metadata.
func (d *KafkaClusterDescriber) DescribeCluster(ctx context.Context) (Cluster, error) {
	meta, err := d.client.Metadata(ctx, &kafka.MetadataRequest{})
	if err != nil {
		return Cluster{}, fmt.Errorf("kafka metadata: %w", err)
	}

	cluster := Cluster{Nodes: make([]Node, 0, len(meta.Brokers))}
	for _, b := range meta.Brokers {
		cluster.Nodes = append(cluster.Nodes, nodeFromBroker(b))
	}
	if meta.Controller.Host != "" {
		controller := nodeFromBroker(meta.Controller)
		cluster.Controller = &controller
	}
	return cluster, nil
}

func nodeFromBroker(b kafka.Broker) Node {
	return Node{ID: b.ID, Host: b.Host, Port: b.Port}
}

// KafkaBrokerChecker checks that at least one bootstrap broker accepts a connection.
type KafkaBrokerChecker struct {
	brokers []string
	dialer  *kafka.Dialer
}

// NewKafkaBrokerChecker creates a new Kafka broker health checker. A non-nil
// tlsConfig enables TLS.
func NewKafkaBrokerChecker(brokers []string, tlsConfig *tls.Config) (*KafkaBrokerChecker, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	return &KafkaBrokerChecker{
		brokers: brokers,
		dialer:  &kafka.Dialer{DualStack: true, TLS: tlsConfig},
	}, nil
}

// Check attempts to connect to any Kafka broker.
func (c *KafkaBrokerChecker) Check(ctx context.Context) Result {
	var errs []error
	for _, broker := range c.brokers {
		conn, err := c.dialer.DialContext(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			return Healthy(fmt.Sprintf("Connected to kafka broker %s", broker))
		}
		errs = append(errs, err)
	}
	return Unhealthy(fmt.Sprintf("Could not connect to kafka cluster at %s", strings.Join(c.brokers, ",")),
		errors.Join(errs...))
}
