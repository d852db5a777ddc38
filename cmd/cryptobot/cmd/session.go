package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/cryptobot/config"
	"github.com/rustyeddy/cryptobot/internal/id"
	"github.com/rustyeddy/cryptobot/internal/logging"
	"github.com/rustyeddy/cryptobot/session"
)

// newSession builds a session and its export sink from cfg.
func newSession(cfg *config.Config, logger *logrus.Logger, opts ...session.Option) (*session.Session, error) {
	sc, err := cfg.SessionConfig()
	if err != nil {
		return nil, err
	}

	j, err := cfg.OpenJournal(logging.Component(logger, "journal"))
	if err != nil {
		return nil, err
	}

	base := []session.Option{
		session.WithJournal(j),
		session.WithLogger(logrus.NewEntry(logger)),
	}
	if sc.RandomSeed != 0 {
		// reproducible runs also get reproducible trade IDs
		base = append(base, session.WithIDGenerator(id.NewGenerator(sc.RandomSeed, nil).New))
	}
	opts = append(base, opts...)

	sess, err := session.New(sc, opts...)
	if err != nil {
		j.Close()
		return nil, fmt.Errorf("new session: %w", err)
	}
	return sess, nil
}
