// Package txerror maps raw failure payloads from simulation, broadcast and
// confirmation into a closed set of domain error kinds.
package txerror

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fape-labs/adrena-client/internal/anchor"
	"github.com/fape-labs/adrena-client/internal/priority"
)

// Kind classifies a failure by how the caller should react to it.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindTransientNetwork is retried locally with a bounded attempt count.
	KindTransientNetwork
	// KindSimulationRejected is fatal before broadcast.
	KindSimulationRejected
	// KindProgramRejected is a decoded custom program error.
	KindProgramRejected
	// KindUserDeclined means the signer refused. Terminal, not loud.
	KindUserDeclined
	// KindExpired means broadcast happened but the outcome is unknown.
	KindExpired
	// KindConfiguration is a missing mapping or bad input. Never retried.
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindTransientNetwork:
		return "transient_network"
	case KindSimulationRejected:
		return "simulation_rejected"
	case KindProgramRejected:
		return "program_rejected"
	case KindUserDeclined:
		return "user_declined"
	case KindExpired:
		return "expired"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// DomainError is the translated form of any pipeline failure.
type DomainError struct {
	Kind    Kind
	Message string
	// Code and Name are set for program rejections.
	Code uint32
	Name string
	// Signature identifies the broadcast attempt, when one happened.
	Signature string
	// Raw preserves the untranslated diagnostic.
	Raw string
}

func (e *DomainError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether the submission loop may retry this failure.
func (e *DomainError) Retryable() bool { return e.Kind == KindTransientNetwork }

var customErrorPattern = regexp.MustCompile(`custom program error: (0x[0-9a-fA-F]+|\d+)`)

// Translate turns any error from the pipeline into a DomainError. It never
// panics and never returns nil for a non-nil input. Recognition order:
// already-translated errors pass through, then the blockhash-not-found
// transient signal, then insufficient balance, then custom program errors
// resolved against the program table, and finally an unknown wrapper that
// keeps the raw string.
func Translate(err error) *DomainError {
	if err == nil {
		return nil
	}

	var domain *DomainError
	if errors.As(err, &domain) {
		return domain
	}

	var sim *priority.SimulationError
	if errors.As(err, &sim) {
		out := fromDiagnostic(sim.Reason, strings.Join(sim.Logs, "\n"))
		if out.Kind == KindUnknown {
			out.Kind = KindSimulationRejected
			out.Message = "transaction rejected during simulation"
		}
		return out
	}

	return fromDiagnostic(err.Error(), err.Error())
}

func fromDiagnostic(diagnostic, raw string) *DomainError {
	lower := strings.ToLower(diagnostic)

	if strings.Contains(lower, "blockhash not found") || strings.Contains(lower, "blockhashnotfound") {
		return &DomainError{
			Kind:    KindTransientNetwork,
			Message: "blockhash not yet visible to this node",
			Raw:     raw,
		}
	}

	if strings.Contains(lower, "insufficient funds for rent") ||
		strings.Contains(lower, "insufficient lamports") ||
		strings.Contains(lower, "insufficientfundsforfee") ||
		strings.Contains(lower, "insufficient funds for fee") {
		return &DomainError{
			Kind:    KindConfiguration,
			Message: "wallet balance cannot cover transaction fees",
			Raw:     raw,
		}
	}

	if match := customErrorPattern.FindStringSubmatch(diagnostic); match != nil {
		if code, ok := parseErrorCode(match[1]); ok {
			return programError(code, raw)
		}
	}
	// Status errors from confirmation polling arrive as the bare structure
	// string, e.g. "InstructionError: [0 Custom:6016]".
	if idx := strings.Index(diagnostic, "Custom:"); idx >= 0 {
		if code, ok := parseErrorCode(strings.TrimRight(diagnostic[idx+len("Custom:"):], "]} ")); ok {
			return programError(code, raw)
		}
	}

	return &DomainError{
		Kind:    KindUnknown,
		Message: diagnostic,
		Raw:     raw,
	}
}

func parseErrorCode(s string) (uint32, bool) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	code, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, false
	}
	return uint32(code), true
}

func programError(code uint32, raw string) *DomainError {
	if entry, found := anchor.ErrorByCode(code); found {
		return &DomainError{
			Kind:    KindProgramRejected,
			Message: entry.Message,
			Code:    entry.Code,
			Name:    entry.Name,
			Raw:     raw,
		}
	}
	return &DomainError{
		Kind:    KindProgramRejected,
		Message: fmt.Sprintf("program rejected with unrecognized code %d", code),
		Code:    code,
		Raw:     raw,
	}
}

// UserDeclined wraps a signer refusal.
func UserDeclined(err error) *DomainError {
	return &DomainError{Kind: KindUserDeclined, Message: "signature request declined", Raw: errString(err)}
}

// Expired reports a submission whose outcome is unknown; sig is the last
// broadcast signature so the caller can reconcile later.
func Expired(sig string, reason string) *DomainError {
	return &DomainError{Kind: KindExpired, Message: reason, Signature: sig}
}

// Configuration reports a caller or deployment mistake.
func Configuration(msg string) *DomainError {
	return &DomainError{Kind: KindConfiguration, Message: msg}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
