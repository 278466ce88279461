package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/clubworks/go-formflow/pkg/renderers/tui"
)

// scriptedDriver feeds collectPayment canned answers.
type scriptedDriver struct {
	confirm   bool
	inputs    []string
	infos     []string
	confirmed int
	inputPos  int
}

func (s *scriptedDriver) Input(_ context.Context, _ tui.InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *scriptedDriver) Confirm(_ context.Context, _ tui.ConfirmConfig) (bool, error) {
	s.confirmed++
	return s.confirm, nil
}

func (s *scriptedDriver) Select(_ context.Context, _ tui.SelectConfig) (int, error) {
	return -1, errors.New("no select scripted")
}

func (s *scriptedDriver) MultiSelect(_ context.Context, _ tui.SelectConfig) ([]int, error) {
	return nil, errors.New("no multiselect scripted")
}

func (s *scriptedDriver) TextArea(_ context.Context, _ tui.TextAreaConfig) (string, error) {
	return "", errors.New("no textarea scripted")
}

func (s *scriptedDriver) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func TestCollectPaymentFreeActivity(t *testing.T) {
	driver := &scriptedDriver{}

	payment, err := collectPayment(context.Background(), driver, false, 0)
	if err != nil {
		t.Fatalf("collectPayment() error = %v", err)
	}
	if payment.Waiver || payment.Proof != nil || payment.Reference != "" {
		t.Errorf("free activity collected payment material: %+v", payment)
	}
	if driver.confirmed != 0 {
		t.Errorf("free activity prompted %d times for a waiver", driver.confirmed)
	}
}

func TestCollectPaymentWaiver(t *testing.T) {
	driver := &scriptedDriver{confirm: true}

	payment, err := collectPayment(context.Background(), driver, true, 50)
	if err != nil {
		t.Fatalf("collectPayment() error = %v", err)
	}
	if !payment.Waiver {
		t.Error("waiver confirm not honoured")
	}
	if driver.confirmed != 1 {
		t.Errorf("waiver prompted %d times, want 1", driver.confirmed)
	}
	if driver.inputPos != 0 {
		t.Error("waived payment still prompted for reference or proof")
	}
}

func TestCollectPaymentProofAndReference(t *testing.T) {
	proofPath := filepath.Join(t.TempDir(), "receipt.png")
	if err := os.WriteFile(proofPath, []byte("receipt"), 0o644); err != nil {
		t.Fatal(err)
	}

	driver := &scriptedDriver{inputs: []string{"TXN-42", proofPath}}

	payment, err := collectPayment(context.Background(), driver, true, 50)
	if err != nil {
		t.Fatalf("collectPayment() error = %v", err)
	}
	if payment.Reference != "TXN-42" {
		t.Errorf("Reference = %q, want TXN-42", payment.Reference)
	}
	if payment.Proof == nil || payment.Proof.Name != "receipt.png" || len(payment.Proof.Content) == 0 {
		t.Errorf("Proof = %+v, want loaded receipt.png", payment.Proof)
	}
}
