package bot

import (
	"errors"
	"strconv"
	"time"
)

const (
	DefaultOwnerID     = "361069640962801664"
	DefaultPrefix      = "-"
	DefaultStateFile   = "auto_react.json"
	DefaultStatus      = "Umar"
	DefaultStatusEvery = 60 * time.Second
	DefaultName        = "ALYA"
)

type Config struct {
	Token       string
	OwnerID     string
	Prefix      string
	StateFile   string
	Status      string        // "Watching <Status>"
	StatusEvery time.Duration // период обновления статуса
	Name        string        // имя бота в ответах (uptime)
}

func DefaultConfig() Config {
	return Config{
		OwnerID:     DefaultOwnerID,
		Prefix:      DefaultPrefix,
		StateFile:   DefaultStateFile,
		Status:      DefaultStatus,
		StatusEvery: DefaultStatusEvery,
		Name:        DefaultName,
	}
}

func (c Config) Validate() error {
	if c.Token == "" {
		return errors.New("TOKEN is not set")
	}
	if _, err := strconv.ParseUint(c.OwnerID, 10, 64); err != nil {
		return errors.New("owner id must be a numeric user id")
	}
	if c.Prefix == "" {
		return errors.New("command prefix must not be empty")
	}
	if c.StateFile == "" {
		return errors.New("state file path must not be empty")
	}
	if c.StatusEvery <= 0 {
		return errors.New("status interval must be positive")
	}
	return nil
}
