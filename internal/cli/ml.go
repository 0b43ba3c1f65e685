// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ml.go - Machine learning and NLP commands.

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aion-cr/aion-cli/internal/api"
	"github.com/aion-cr/aion-cli/internal/output"
)

const analysisConfidence = 0.7

// =============================================================================
// COMMAND TREE
// =============================================================================

func (r *runner) mlCommand() *cobra.Command {
	var train trainOptions
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Train ML models",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.trainModel(ctx, train)
		}),
	}
	enumFlag(trainCmd, &train.Model, "model", "", "", "Model type to train", modelTypes...)
	trainCmd.Flags().StringVar(&train.DataFile, "data", "", "Training data path (JSON or YAML)")
	trainCmd.Flags().Uint32Var(&train.Epochs, "epochs", 100, "Number of training epochs")
	required(trainCmd, "model", "data")

	var predict predictOptions
	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Make predictions using trained models",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.predict(ctx, predict)
		}),
	}
	predictCmd.Flags().StringVar(&predict.Model, "model", "", "Model name")
	predictCmd.Flags().StringVar(&predict.Input, "input", "", "Input text or file")
	required(predictCmd, "model", "input")

	var analyze textAnalysisOptions
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze text using NLP",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.analyzeText(ctx, analyze)
		}),
	}
	analyzeCmd.Flags().StringVar(&analyze.Text, "text", "", "Text to analyze")
	enumFlag(analyzeCmd, &analyze.Type, "type", "", "classification", "Analysis type", analysisTypes...)
	required(analyzeCmd, "text")

	var showStatus bool
	models := &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.listModels(ctx, showStatus)
		}),
	}
	models.Flags().BoolVar(&showStatus, "status", false, "Show model status and performance")

	return r.group("ml", "ML", "Machine learning and NLP operations",
		trainCmd, predictCmd, analyzeCmd, models)
}

// =============================================================================
// HANDLERS
// =============================================================================

type trainOptions struct {
	Model    string
	DataFile string
	Epochs   uint32
}

func (a *App) trainModel(ctx context.Context, opts trainOptions) error {
	data, err := readDocument(opts.DataFile)
	if err != nil {
		return err
	}

	a.progress(fmt.Sprintf("Training %s model with %d epochs", opts.Model, opts.Epochs))

	body := api.NewTrainRequest(opts.Model, data, opts.Epochs)

	var result api.TrainResult
	err = a.withSpinner(fmt.Sprintf("Training model (%d epochs)...", opts.Epochs), func() error {
		resp, err := a.post(ctx, api.PathMLTrain, body, "train model")
		if err != nil {
			return err
		}
		result = api.DecodeTrainResult(resp.Body)
		return nil
	})
	if err != nil {
		return err
	}

	o := a.out
	o.Println(o.Success("Model training completed successfully"))
	o.Println("Model ID: " + result.ModelID)
	o.Println("Final Accuracy: " + output.Percent(result.Accuracy))
	o.Printf("Training Time: %.1fs\n", result.TrainingTimeSeconds)
	return nil
}

type predictOptions struct {
	Model string
	Input string
}

func (a *App) predict(ctx context.Context, opts predictOptions) error {
	a.progress("Making prediction using model: " + opts.Model)

	body := api.PredictRequest{
		ModelName:        opts.Model,
		Input:            opts.Input,
		ReturnConfidence: true,
	}
	resp, err := a.post(ctx, api.PathMLPredict, body, "make prediction")
	if err != nil {
		return err
	}
	if a.out.Format().Structured() {
		a.out.Document(resp.Body)
		return nil
	}

	p := api.DecodePrediction(resp.Body)
	o := a.out
	o.TitleLine("Prediction Results")
	o.Println("Model: " + opts.Model)
	o.Println("Input: " + opts.Input)
	o.Println("Prediction: " + p.Prediction)
	o.Println("Confidence: " + output.Percent(p.Confidence))

	if p.HasProbabilities {
		o.HeadingLine("Class Probabilities:")
		for _, cp := range p.Probabilities {
			o.Printf("  %s: %s\n", cp.Class, output.Percent(cp.Probability))
		}
	}
	return nil
}

type textAnalysisOptions struct {
	Text string
	Type string
}

func (a *App) analyzeText(ctx context.Context, opts textAnalysisOptions) error {
	a.progress(fmt.Sprintf("Analyzing text using %s analysis", opts.Type))

	body := api.TextAnalysisRequest{
		Text:                opts.Text,
		AnalysisType:        opts.Type,
		ConfidenceThreshold: analysisConfidence,
	}
	resp, err := a.post(ctx, api.PathNLPAnalyze, body, "analyze text")
	if err != nil {
		return err
	}
	if a.out.Format().Structured() {
		a.out.Document(resp.Body)
		return nil
	}

	result := api.DecodeTextAnalysis(resp.Body)
	o := a.out
	o.TitleLine("Text Analysis Results")
	o.Println("Text: " + opts.Text)
	o.Println("Analysis Type: " + opts.Type)

	switch opts.Type {
	case "classification":
		o.Println("Classification: " + result.Classification)
		o.Println("Confidence: " + output.Percent(result.Confidence))
	case "sentiment":
		o.Println("Sentiment: " + result.Sentiment)
		o.Printf("Score: %.2f\n", result.SentimentScore)
	case "entities":
		if result.HasEntities {
			o.HeadingLine("Entities Found:")
			for _, e := range result.Entities {
				o.Printf("  - %s (%s)\n", e.Text, e.Type)
			}
		}
	case "conflicts":
		answer := o.Success("No")
		if result.ConflictsDetected {
			answer = o.Failure("Yes")
		}
		o.Println("Conflicts Detected: " + answer)
	default:
		o.Println("Results:")
		o.JSON(resp.Body)
	}
	return nil
}

func (a *App) listModels(ctx context.Context, showStatus bool) error {
	resp, err := a.get(ctx, api.PathMLModels, nil, "list models")
	if err != nil {
		return err
	}
	if a.out.Format().Structured() {
		a.out.Document(resp.Body)
		return nil
	}

	o := a.out
	o.TitleLine("Available ML Models")
	for _, m := range api.DecodeModels(resp.Body) {
		o.HeadingLine(m.Name)
		o.Println("  Type: " + m.Type)
		o.Println("  Version: " + m.Version)
		if showStatus {
			o.Println("  Status: " + o.Status(m.Status))
			o.Println("  Accuracy: " + output.Percent(m.Accuracy))
			o.Println("  Last Trained: " + m.LastTrained)
		}
	}
	return nil
}
