package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/pifi/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the token database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.DatabasePath())

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	r.writePlain("✓ Database ready: %s\n", r.config.DatabasePath())
	return nil
}

// SetupConfig writes the example settings to the --config path, refusing to overwrite an existing file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s already exists", shared.ErrInvalidArgument, path)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Settings written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set client_id (and client_secret, if any) from the Spotify developer dashboard\n")
	r.writePlain("2. Set device_name to the Spotify Connect name of this device\n")
	r.writePlain("3. Run 'pifi auth login' or 'pifi run'\n")
	return nil
}
