package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	formflow "github.com/clubworks/go-formflow"
	"github.com/clubworks/go-formflow/pkg/docstore"
	"github.com/clubworks/go-formflow/pkg/filestore"
	"github.com/clubworks/go-formflow/pkg/renderers/tui"
	"github.com/clubworks/go-formflow/pkg/submission"
)

func main() {
	form := flag.String("form", "", "form definition file (JSON or YAML); empty uses the default template")
	activity := flag.String("activity", "local", "activity id the registration belongs to")
	output := flag.String("output", "", "write the submission record to this file (stdout if empty)")
	printOnly := flag.Bool("print", false, "print the definition as JSON instead of running it")
	paid := flag.Bool("paid", false, "treat the activity as paid")
	fee := flag.Float64("fee", 0, "registration fee shown for paid activities")
	flag.Parse()

	ctx := context.Background()

	def := formflow.NewBuilder().Definition()
	if *form != "" {
		loaded, err := formflow.LoadDefinition(*form)
		if err != nil {
			log.Fatalf("Failed to load form: %v", err)
		}
		def = loaded
	}

	if *printOnly {
		data, err := json.MarshalIndent(def, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode form: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	driver := tui.NewSurveyPromptDriver()

	answers, err := tui.New(tui.WithPromptDriver(driver)).Run(ctx, def)
	if err != nil {
		log.Fatalf("Registration aborted: %v", err)
	}

	payment, err := collectPayment(ctx, driver, *paid, *fee)
	if err != nil {
		log.Fatalf("Registration aborted: %v", err)
	}

	registrar := formflow.NewRegistrar(docstore.NewMemory(), filestore.NewMemory())
	if err := registrar.SaveDefinition(ctx, *activity, def); err != nil {
		log.Fatalf("Failed to store form: %v", err)
	}

	id, sub, err := registrar.Register(ctx, *activity, answers, payment, formflow.PaymentConfig{IsPaid: *paid, Fee: *fee})
	if err != nil {
		log.Fatalf("Registration rejected: %v", err)
	}

	record, err := json.MarshalIndent(sub.Document(), "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode submission: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, record, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Submission %s written to %s\n", id, *output)
	} else {
		fmt.Println(string(record))
	}
}

// collectPayment prompts for payment material on paid runs. An unreadable
// proof file leaves the payment incomplete and lets the processor report
// what is missing.
func collectPayment(ctx context.Context, driver tui.PromptDriver, paid bool, fee float64) (formflow.Payment, error) {
	if !paid {
		return formflow.Payment{}, nil
	}
	if err := driver.Info(ctx, fmt.Sprintf("This activity charges a fee of %.2f.", fee)); err != nil {
		return formflow.Payment{}, err
	}

	waived, err := driver.Confirm(ctx, tui.ConfirmConfig{
		Message: "Request a payment waiver?",
		Help:    "Waivers are reviewed by the organisers after you register.",
	})
	if err != nil {
		return formflow.Payment{}, err
	}
	if waived {
		return formflow.Payment{Waiver: true}, nil
	}

	var payment submission.Payment
	payment.Reference, err = driver.Input(ctx, tui.InputConfig{Message: "Transaction reference"})
	if err != nil {
		return formflow.Payment{}, err
	}

	path, err := driver.Input(ctx, tui.InputConfig{Message: "Payment proof file (blank to skip)"})
	if err != nil {
		return formflow.Payment{}, err
	}
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Could not read payment proof: %v", err)
		} else {
			payment.Proof = &filestore.File{
				Name:    filepath.Base(path),
				Size:    int64(len(content)),
				Content: content,
			}
		}
	}
	return payment, nil
}
