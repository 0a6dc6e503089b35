package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirillTim/Deep-Semantic-Similarity-Model/IO"
	"github.com/KirillTim/Deep-Semantic-Similarity-Model/dssm"
	"github.com/KirillTim/Deep-Semantic-Similarity-Model/params"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dssm",
	Short: "Deep Semantic Similarity Model trainer",
	Long: `Trains a toy DSSM: a query encoder and a weight-shared document
encoder mapped into a common semantic space, scored by cosine similarity and
fit with a softmax over one clicked and J unclicked documents.`,
	SilenceUsage: true,
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train on synthetic click data and demo the extracted scorers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := params.Load(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("epochs") {
			cfg.Epochs, _ = cmd.Flags().GetInt("epochs")
		}
		if cmd.Flags().Changed("samples") {
			cfg.SampleSize, _ = cmd.Flags().GetInt("samples")
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed, _ = cmd.Flags().GetInt64("seed")
		}

		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()

		return Train(cfg, logger.Sugar())
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <query> <document>",
	Short: "Trigram-hash two texts and print their semantic similarity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := params.Load(cfgFile)
		if err != nil {
			return err
		}
		rng := rand.New(rand.NewSource(cfg.Seed))
		model, err := dssm.New(cfg, rng)
		if err != nil {
			return err
		}

		hasher := IO.NewTrigramHasher(cfg.WindowSize, cfg.TotalLetterGrams)
		q, err := hasher.Encode(args[0])
		if err != nil {
			return err
		}
		d, err := hasher.Encode(args[1])
		if err != nil {
			return err
		}

		sim, err := model.ScorePositive(q, d)
		if err != nil {
			return err
		}
		fmt.Printf("similarity: %.6f\n", sim)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter YAML config with the default hyperparameters",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := params.DefaultConfigFile
		if len(args) == 1 {
			path = args[0]
		}
		if err := params.WriteDefault(path); err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config (default: built-in defaults + DSSM_* env)")

	trainCmd.Flags().Int("epochs", params.Config.Epochs, "training epochs")
	trainCmd.Flags().Int("samples", params.Config.SampleSize, "synthetic examples per epoch")
	trainCmd.Flags().Int64("seed", params.Config.Seed, "RNG seed")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(trainCmd, scoreCmd, configCmd)
}
