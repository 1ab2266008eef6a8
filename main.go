package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	agentsx "certpilot/agent/agents"
	catalogx "certpilot/agent/catalog"
	contractx "certpilot/agent/contract"
	llmx "certpilot/agent/llm"
	runnerx "certpilot/agent/runner"
	configx "certpilot/pkg/config"
	consolex "certpilot/pkg/console"
	logx "certpilot/pkg/logger"
	openrouterx "certpilot/pkg/openrouter"
)

var (
	envFile  string
	dataFile string
)

func main() {
	root := &cobra.Command{
		Use:   "certpilot",
		Short: "Certification roadmap advisor",
		Long:  "certpilot turns a user profile into a certification recommendation, gap analysis, study plan, and weekly schedule.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configx.SetEnvFile(envFile)
			logCfg := configx.MustNew[logx.Config]("LOG")
			logx.Init(*logCfg)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a certification roadmap interactively",
		RunE:  runPlan,
	}
	planCmd.Flags().StringVar(&dataFile, "data", "", "path to a certifications dataset (default: embedded)")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the model endpoint and credentials",
		RunE:  runCheck,
	}

	root.AddCommand(planCmd, checkCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadCatalog() (*catalogx.Catalog, error) {
	if dataFile != "" {
		return catalogx.Load(dataFile)
	}
	return catalogx.Default()
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cat, err := loadCatalog()
	if err != nil {
		// dataset problems are fatal, there is nothing to advise on
		log.Error().Err(err).Msg("cannot load certification dataset")
		return err
	}

	llmCfg, err := configx.New[llmx.Config]("OPENROUTER")
	if err != nil {
		log.Error().Err(err).Msg("cannot load model configuration")
		return err
	}

	registry, err := agentsx.NewRegistry(ctx, *llmCfg, cat)
	if err != nil {
		log.Error().Err(err).Msg("cannot build pipeline agents")
		return err
	}

	run, err := runnerx.New(registry, consolex.ProgressNotifier{Out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}

	prompter := consolex.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	profile := prompter.CollectProfile()

	rc, runErr := run.Run(ctx, profile)
	consolex.RenderContext(cmd.OutOrStdout(), rc)

	if runErr != nil {
		if errors.Is(runErr, contractx.ErrStageFailure) {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "The pipeline stopped early: %v\nThe roadmap above is partial.\n", runErr)
			return nil
		}
		return runErr
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	llmCfg, err := configx.New[llmx.Config]("OPENROUTER")
	if err != nil {
		return err
	}
	if err := llmCfg.Validate(); err != nil {
		return err
	}

	client := openrouterx.NewClient(llmCfg.SDK())
	if client == nil {
		return fmt.Errorf("%w: api key is required", contractx.ErrValidation)
	}

	page, err := client.Models.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("model endpoint check failed")
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "endpoint OK, %d models visible, configured model: %s\n",
		len(page.Data), llmCfg.Model)
	return nil
}
