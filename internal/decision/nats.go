package decision

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/shanehull/vyapar/internal/config"
	"github.com/shanehull/vyapar/internal/types"
)

// Connect opens a NATS connection with reconnect handling.
func Connect(cfg config.NATSConfig, log logrus.FieldLogger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name("vyapar"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Debug("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}
	return nc, nil
}

// natsConn is the subset of *nats.Conn used for publishing.
type natsConn interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher publishes decisions as JSON on "<prefix>.logged".
type NATSPublisher struct {
	conn    natsConn
	subject string
}

func NewNATSPublisher(conn *nats.Conn, prefix string) *NATSPublisher {
	return newNATSPublisher(conn, prefix)
}

func newNATSPublisher(conn natsConn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: fmt.Sprintf("%s.logged", prefix)}
}

func (p *NATSPublisher) Subject() string { return p.subject }

func (p *NATSPublisher) Publish(_ context.Context, rec types.DecisionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}
	return nil
}
