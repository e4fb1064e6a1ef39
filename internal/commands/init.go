package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agent-foreman/foreman/internal/agent"
	"github.com/agent-foreman/foreman/internal/capability"
	"github.com/agent-foreman/foreman/internal/models"
	"github.com/agent-foreman/foreman/internal/output"
	"github.com/agent-foreman/foreman/internal/store"
)

func progressInit(created, migrated bool) models.ProgressEntry {
	summary := "project initialized"
	switch {
	case created && migrated:
		summary = "task index created; legacy feature_list.json migrated"
	case created:
		summary = "task index created"
	case migrated:
		summary = "legacy feature_list.json migrated"
	}
	return models.ProgressEntry{Kind: models.ProgressKindInit, Summary: summary}
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up the task index and detect project capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := cwdFlag(cmd)
			if err != nil {
				return cmdErr(err)
			}
			s, err := openStore(cwd)
			if err != nil {
				return cmdErr(err)
			}
			if err := s.Paths().EnsureDirs(); err != nil {
				return cmdErr(err)
			}

			migrated, err := s.MigrateLegacyIfPresent()
			if err != nil {
				return cmdErr(err)
			}

			created := false
			if _, err := s.LoadIndex(); err != nil {
				if _, isMissing := err.(*store.IndexMissingError); !isMissing {
					return cmdErr(err)
				}
				if _, err := s.CreateIndex(); err != nil {
					return cmdErr(err)
				}
				created = true
			}

			inv := agent.New()
			caps := capability.Detect(context.Background(), cwd, s.Paths().CapabilitiesFile, inv, capability.Options{})

			if err := s.AppendProgress(progressInit(created, migrated)); err != nil {
				return cmdErr(err)
			}

			stats, err := s.StatsFromIndex()
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				StateDir     string              `json:"stateDir"`
				IndexCreated bool                `json:"indexCreated"`
				Migrated     bool                `json:"migrated"`
				Capabilities interface{}         `json:"capabilities"`
				Stats        *store.Stats        `json:"stats"`
			}
			return output.PrintSuccess(resp{
				StateDir:     s.Paths().Root,
				IndexCreated: created,
				Migrated:     migrated,
				Capabilities: caps,
				Stats:        stats,
			})
		},
	}
	return cmd
}
