package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/de-tools/lab-costing/pkg/services/config"
)

type ProfilesCmd struct {
	source *Source
}

func NewProfilesCmd(source *Source) *cobra.Command {
	pc := &ProfilesCmd{source: source}
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the database profiles of the profiles file",
		RunE:  pc.run,
	}
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	path := pc.source.ProfilesFile
	if path == "" {
		path = config.DefaultProfilesPath()
	}

	registry, err := config.NewProfileRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to read profiles from %s: %w", path, err)
	}

	names, err := registry.GetProfiles(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No profiles found in %s\n", path)
		return nil
	}

	var lines []string
	for _, name := range names {
		profile, err := registry.GetProfile(ctx, name)
		if err != nil {
			lines = append(lines, fmt.Sprintf("%s (invalid: %v)", name, err))
			continue
		}
		lines = append(lines, profile.String())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profiles in %s:\n%s\n", path, strings.Join(lines, "\n"))
	return nil
}
