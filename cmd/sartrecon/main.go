package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"sartrecon/pkg/config"
	"sartrecon/pkg/phantom"
	"sartrecon/pkg/radon"
	"sartrecon/pkg/reconstruction"
	"sartrecon/pkg/visualization"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "config.yaml", "Path to YAML configuration file")
	outputDir := flag.String("output", "output", "Directory for result images")
	size := flag.Int("size", 0, "Phantom size in pixels (overrides config)")
	angles := flag.Int("angles", 0, "Number of projection angles (overrides config)")
	iterations := flag.Int("iterations", 0, "Number of SART iterations (overrides config)")
	relaxation := flag.Float64("relaxation", 0, "SART relaxation factor (overrides config)")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration file and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Apply command line overrides
	if *size > 0 {
		cfg.Output.PhantomSize = *size
	}
	if *angles > 0 {
		cfg.Projection.Angles = *angles
	}
	if *iterations > 0 {
		cfg.Reconstruction.Iterations = *iterations
	}
	if *relaxation > 0 {
		cfg.Reconstruction.Relaxation = *relaxation
	}

	fmt.Println("================================")
	fmt.Println("SART TOMOGRAPHIC RECONSTRUCTION")
	fmt.Println("Simultaneous Algebraic Reconstruction Technique on a simulated sinogram")
	fmt.Println("================================")

	// Step 1: Generate the test phantom
	fmt.Println("Step 1: Generating Shepp-Logan phantom...")
	n := cfg.Output.PhantomSize
	img := phantom.SheppLogan(n)
	fmt.Printf("Phantom size: %dx%d pixels\n", n, n)

	// Step 2: Forward projection
	fmt.Println("Step 2: Simulating sinogram...")
	theta := radon.UniformAngles(cfg.Projection.Angles, cfg.Projection.StartAngle, cfg.Projection.StopAngle)
	transform := radon.NewTransform(theta)
	transform.SetWorkers(cfg.Processing.NumCores)

	sino, err := transform.Forward(img, n)
	if err != nil {
		log.Fatalf("Forward projection failed: %v", err)
	}
	fmt.Printf("Sinogram: %d angles x %d detector positions\n", sino.AngleCount(), sino.RayCount)

	// Step 3: SART reconstruction
	fmt.Printf("Step 3: Reconstructing with SART (%d iterations, relaxation %.2f)...\n",
		cfg.Reconstruction.Iterations, cfg.Reconstruction.Relaxation)

	params := &reconstruction.Params{
		Iterations:              cfg.Reconstruction.Iterations,
		Relaxation:              cfg.Reconstruction.Relaxation,
		Clip:                    cfg.Reconstruction.Clip,
		ClipMin:                 cfg.Reconstruction.ClipMin,
		ClipMax:                 cfg.Reconstruction.ClipMax,
		SaveIntermediaryResults: cfg.Output.SaveIntermediaryResults,
		IntermediaryDir:         filepath.Join(*outputDir, cfg.Output.IntermediaryDir),
	}

	reconstructor := reconstruction.NewReconstructor(params)
	if cfg.Output.Verbose {
		reconstructor.SetProgressCallback(func(completed, total int, message string) {
			progress := float64(completed) / float64(total) * 100
			fmt.Printf("\rReconstructing: %.1f%% complete (%s)", progress, message)
		})
	}

	startTime := time.Now()
	estimate, err := reconstructor.Reconstruct(sino, n)
	if err != nil {
		log.Fatalf("Reconstruction failed: %v", err)
	}
	if cfg.Output.Verbose {
		fmt.Println()
	}
	fmt.Printf("Reconstruction completed in %.2f seconds\n", time.Since(startTime).Seconds())

	// Step 4: Validation metrics against the known phantom
	fmt.Println("Step 4: Calculating validation metrics...")
	metrics, err := reconstruction.Evaluate(img, estimate)
	if err != nil {
		log.Fatalf("Metric calculation failed: %v", err)
	}

	fmt.Printf("\nValidation Metrics:\n")
	fmt.Printf("===================\n")
	fmt.Printf("Root Mean Square Error (RMSE): %.6f\n", metrics.RMSE)
	fmt.Printf("Peak Signal-to-Noise Ratio (PSNR): %.2f dB\n", metrics.PSNR)
	fmt.Printf("Structural Similarity Index (SSIM): %.3f\n", metrics.SSIM)
	fmt.Printf("Correlation: %.3f\n", metrics.Correlation)

	// Step 5: Save result images
	fmt.Println("\nStep 5: Saving result images...")
	scale := cfg.Output.ScaleFactor

	outputs := []struct {
		data          []float64
		width, height int
		name          string
	}{
		{img, n, n, "phantom.jpg"},
		{sino.Data, sino.RayCount, sino.AngleCount(), "sinogram.jpg"},
		{estimate, n, n, "reconstruction.jpg"},
	}
	for _, out := range outputs {
		filename := filepath.Join(*outputDir, out.name)
		if err := visualization.SaveField(out.data, out.width, out.height, scale, filename); err != nil {
			log.Fatalf("Failed to save %s: %v", out.name, err)
		}
		fmt.Printf("Saved %s\n", filename)
	}

	if cfg.Output.SaveIntermediaryResults {
		fmt.Printf("\nPer-iteration estimates saved to: %s\n", params.IntermediaryDir)
	}
}
