package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/de-tools/lab-costing/pkg/models/domain"
)

// ProfileRegistry resolves named database connections from an INI file:
//
//	[reporting]
//	host = db.internal
//	port = 5432
//	user = labcost
//	password = secret
//	database = labcosting
//	sslmode = require
type ProfileRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (*domain.DatabaseProfile, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewProfileRegistry(path string) (ProfileRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *iniRegistry) GetProfile(_ context.Context, name string) (*domain.DatabaseProfile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", name)
	}

	host := section.Key("host").String()
	if host == "" {
		return nil, fmt.Errorf("profile %s: host is required", name)
	}

	return &domain.DatabaseProfile{
		Name:     name,
		Host:     host,
		Port:     section.Key("port").MustInt(5432),
		User:     section.Key("user").String(),
		Password: section.Key("password").String(),
		Database: section.Key("database").MustString("postgres"),
		SSLMode:  section.Key("sslmode").MustString("disable"),
	}, nil
}
