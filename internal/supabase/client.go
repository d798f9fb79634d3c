package supabase

import (
	"medinote-backend/internal/config"

	"github.com/supabase-community/supabase-go"
)

// Client bundles the Supabase API client with the loaded configuration.
// The storage client is taken from here so every storage call goes through
// the same authenticated session.
type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}
