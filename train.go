package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/KirillTim/Deep-Semantic-Similarity-Model/IO"
	"github.com/KirillTim/Deep-Semantic-Similarity-Model/dssm"
	"github.com/KirillTim/Deep-Semantic-Similarity-Model/params"
	"github.com/KirillTim/Deep-Semantic-Similarity-Model/utils"
)

// Train fits a fresh model on synthetic click data, one example per
// optimizer step, then demonstrates the two extracted scorers against a full
// forward pass.
func Train(cfg params.TrainingConfig, log *zap.SugaredLogger) error {
	rng := rand.New(rand.NewSource(cfg.Seed))

	model, err := dssm.New(cfg, rng)
	if err != nil {
		return err
	}
	data := IO.SyntheticDataset(rng, cfg.SampleSize, cfg)

	log.Infow("training",
		"word_depth", cfg.WordDepth(),
		"k", cfg.K, "l", cfg.L, "j", cfg.J,
		"examples", len(data), "epochs", cfg.Epochs,
	)

	logFile, err := os.Create(cfg.TrainLogPath)
	if err != nil {
		return fmt.Errorf("creating training log: %w", err)
	}
	defer logFile.Close()
	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()
	logWriter.Write([]string{"epoch", "loss"})

	t1 := time.Now()
	for e := 0; e < cfg.Epochs; e++ {
		epochTime := time.Now()
		var totalLoss float64
		for i, ex := range data {
			loss, err := model.TrainStep(ex.Query, ex.Positive, ex.Negatives)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			totalLoss += loss
		}
		avgLoss := totalLoss / float64(len(data))
		log.Infow("epoch done",
			"epoch", e+1,
			"loss", avgLoss,
			"gamma", model.Gamma.At(0, 0),
			"conv_norm", utils.MatrixNorm(model.Doc.ConvW),
			"elapsed", time.Since(epochTime).String(),
		)
		logWriter.Write([]string{
			fmt.Sprintf("%d", e+1),
			fmt.Sprintf("%.6f", avgLoss),
		})
	}
	log.Infof("trained in %s", time.Since(t1))

	return demoScorers(model, data[0], log)
}

// demoScorers pulls the positive-only and negatives-only scoring functions
// out of the trained graph and checks they agree with a full forward pass.
func demoScorers(model *dssm.Model, ex IO.Example, log *zap.SugaredLogger) error {
	pred, err := model.Forward(ex.Query, ex.Positive, ex.Negatives)
	if err != nil {
		return err
	}

	posSim, err := model.ScorePositive(ex.Query, ex.Positive)
	if err != nil {
		return err
	}
	negSims, err := model.ScoreNegatives(ex.Query, ex.Negatives)
	if err != nil {
		return err
	}

	log.Infow("extracted scorers", "positive", posSim, "negatives", negSims)

	if math.Abs(posSim-pred.Similarities[0]) > 0 {
		return fmt.Errorf("positive scorer disagrees with forward pass: %g vs %g",
			posSim, pred.Similarities[0])
	}
	for i, s := range negSims {
		if math.Abs(s-pred.Similarities[i+1]) > 0 {
			return fmt.Errorf("negative scorer %d disagrees with forward pass: %g vs %g",
				i, s, pred.Similarities[i+1])
		}
	}

	probs := make([]float64, 0, len(pred.Similarities))
	for i := range pred.Similarities {
		probs = append(probs, pred.Probabilities.At(i, 0))
	}
	log.Infow("candidate distribution", "p", probs)
	return nil
}
