// Package derive computes values the operator should not have to type.
//
// A Rule either maps one base value to another with a pure function (for
// example DOMAIN to the auth service URL) or generates a secret once.
// Generated secrets are never rotated: when the item already exists in
// the registry the rule yields nothing.
package derive

import (
	"fmt"

	"github.com/PolarWolf314/envsync/internal/catalog"
	"github.com/PolarWolf314/envsync/internal/secrets"
	"github.com/PolarWolf314/envsync/internal/snapshot"
)

// passphraseBytes is the entropy of generated secrets.
const passphraseBytes = 24

// Rule derives a single remote item.
type Rule struct {
	Key catalog.Key

	// From names the base item. Compute receives its resolved value.
	From string

	// Compute maps the base value to the derived one. ok=false means no change.
	Compute func(input string) (value string, ok bool)

	// Generate produces a fresh value for Once rules.
	Generate func() (string, error)

	// Once rules are generated a single time and never regenerated.
	Once bool
}

// Input is everything a derivation may read.
type Input struct {
	Answers  catalog.Answers
	Remote   catalog.Index
	Snapshot snapshot.Values
}

// resolve returns the base value: this run's answer, else the remote variable, else "".
func (in Input) resolve(name string) string {
	if a, ok := in.Answers[name]; ok && a.Value != "" {
		return a.Value
	}
	key := catalog.Key{Name: name, Kind: catalog.Variable, Scope: catalog.Environment}
	if item, ok := in.Remote.Lookup(key); ok {
		return item.Value
	}
	return ""
}

// Apply evaluates rules in order and returns the derived answers.
func Apply(rules []Rule, in Input) ([]catalog.Answer, error) {
	var derived []catalog.Answer
	for _, rule := range rules {
		value, ok, err := rule.evaluate(in)
		if err != nil {
			return nil, fmt.Errorf("deriving %s: %w", rule.Key.Name, err)
		}
		if !ok {
			continue
		}

		answer := catalog.Answer{
			Name:    rule.Key.Name,
			Label:   rule.Key.Name,
			Kind:    rule.Key.Kind,
			Scope:   rule.Key.Scope,
			Value:   value,
			Derived: true,
		}
		if item, found := in.Remote.Lookup(rule.Key); found {
			answer.DidExist = item
		}
		derived = append(derived, answer)
	}
	return derived, nil
}

func (rule Rule) evaluate(in Input) (string, bool, error) {
	if rule.Once {
		if _, exists := in.Remote.Lookup(rule.Key); exists {
			return "", false, nil
		}
		// A previous run may have generated it without managing to push it.
		if previous := in.Snapshot[rule.Key.Name]; previous != "" {
			return previous, true, nil
		}
		value, err := rule.Generate()
		if err != nil {
			return "", false, err
		}
		return value, true, nil
	}

	value, ok := rule.Compute(in.resolve(rule.From))
	if !ok || value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// Keys returns the keys produced by rules.
func Keys(rules []Rule) []catalog.Key {
	keys := make([]catalog.Key, 0, len(rules))
	for _, rule := range rules {
		keys = append(keys, rule.Key)
	}
	return keys
}

// Subdomain returns a Compute function building https://<prefix>.<domain>.
func Subdomain(prefix string) func(string) (string, bool) {
	return func(domain string) (string, bool) {
		if domain == "" {
			return "", false
		}
		return "https://" + prefix + "." + domain, true
	}
}

func urlRule(name, prefix string) Rule {
	return Rule{
		Key:     catalog.Key{Name: name, Kind: catalog.Variable, Scope: catalog.Environment},
		From:    catalog.DomainLabel,
		Compute: Subdomain(prefix),
	}
}

func generatedSecret(name string, scope catalog.Scope) Rule {
	return Rule{
		Key:  catalog.Key{Name: name, Kind: catalog.Secret, Scope: scope},
		Once: true,
		Generate: func() (string, error) {
			return secrets.GeneratePassphrase(passphraseBytes)
		},
	}
}

// Rules returns the derivations applied after every section has run.
func Rules() []Rule {
	return []Rule{
		urlRule("AUTH_HOST", "auth"),
		urlRule("GATEWAY_HOST", "gateway"),
		urlRule("LOGIN_URL", "login"),
		urlRule("CLIENT_APP_URL", "register"),
		urlRule("COUNTRY_CONFIG_URL", "countryconfig"),
		generatedSecret("ELASTICSEARCH_SUPERUSER_PASSWORD", catalog.Environment),
		generatedSecret("MONGODB_ADMIN_PASSWORD", catalog.Environment),
		generatedSecret("KIBANA_PASSWORD", catalog.Environment),
		generatedSecret("ENCRYPTION_KEY", catalog.Environment),
		generatedSecret("BACKUP_ENCRYPTION_PASSPHRASE", catalog.Repository),
	}
}
