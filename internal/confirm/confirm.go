// Package confirm reconciles the ledger against the board's "application
// sent" emails. It reports, it never writes: the ledger stays append-only
// and its records untouched.
package confirm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"autoapply-engine/internal/config"
	"autoapply-engine/internal/domain"
	"autoapply-engine/internal/events"
	"autoapply-engine/internal/session"
)

// Report is the outcome of one reconciliation pass.
type Report struct {
	// Confirmed are ledger records with a matching confirmation email.
	Confirmed []domain.AppliedJob
	// Unmatched are confirmations with no ledger record, e.g. applications
	// sent outside the engine.
	Unmatched []Confirmation
}

// Reconcile fetches unseen confirmation emails and matches them against
// the ledger records from this run. Matching is the ledger's own identity:
// exact (title, company).
func Reconcile(ctx context.Context, cfg config.Config, records []domain.AppliedJob, hub *events.Hub) (Report, error) {
	var rep Report
	if !cfg.Confirm.Enabled {
		return rep, nil
	}

	addr := cfg.Confirm.IMAPHost
	if !strings.Contains(addr, ":") {
		port := cfg.Confirm.IMAPPort
		if port == 0 {
			port = 993
		}
		addr = fmt.Sprintf("%s:%d", addr, port)
	}

	password, err := session.GetIMAPPassword(session.IMAPAccount(cfg.Confirm.Username, cfg.Confirm.IMAPHost))
	if err != nil {
		return rep, err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	c, err := dialAndLogin(ctx, addr, cfg.Confirm.Username, password)
	if err != nil {
		return rep, err
	}
	defer logoutAndClose(c)

	msgs, err := fetchUnseen(ctx, c, cfg.Confirm.Mailbox, 200)
	if err != nil {
		return rep, err
	}

	byKey := make(map[string]domain.AppliedJob, len(records))
	for _, r := range records {
		byKey[r.Key()] = r
	}

	for _, m := range msgs {
		if len(cfg.Confirm.SubjectAny) > 0 && !subjectMatches(m.Subject, cfg.Confirm.SubjectAny) {
			continue
		}
		conf, ok := ParseConfirmation(m.Subject, htmlBody(m.Raw))
		if !ok {
			continue
		}
		key := domain.JobDetails{Title: conf.Title, Company: conf.Company}.Key()
		if rec, ok := byKey[key]; ok {
			log.Printf("[confirm] confirmed title=%q company=%q", conf.Title, conf.Company)
			rep.Confirmed = append(rep.Confirmed, rec)
			if hub != nil {
				hub.Publish(events.Make(events.TypeConfirmationFound, map[string]any{
					"title": conf.Title, "company": conf.Company,
				}))
			}
			continue
		}
		log.Printf("[confirm] unmatched confirmation title=%q company=%q", conf.Title, conf.Company)
		rep.Unmatched = append(rep.Unmatched, conf)
	}

	return rep, nil
}

func subjectMatches(subject string, any []string) bool {
	s := strings.ToLower(subject)
	for _, needle := range any {
		needle = strings.ToLower(strings.TrimSpace(needle))
		if needle != "" && strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
