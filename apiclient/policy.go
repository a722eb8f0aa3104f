package apiclient

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// EndpointRule matches a request by method and path. An empty method list
// matches every method.
type EndpointRule struct {
	Methods []string
	Path    *regexp.Regexp
}

// Matches reports whether method and path satisfy the rule.
func (r EndpointRule) Matches(method, path string) bool {
	if r.Path == nil {
		return false
	}
	if len(r.Methods) > 0 && !slices.ContainsFunc(r.Methods, func(m string) bool { return strings.EqualFold(m, method) }) {
		return false
	}
	return r.Path.MatchString(path)
}

// Policy decides which 401/403 responses are business rule rejections rather
// than authentication failures. The backend does not say so explicitly, so
// this is a heuristic over its messages and endpoints.
type Policy struct {
	// MessagePatterns mark a 403 as a business error when the backend message
	// matches.
	MessagePatterns []*regexp.Regexp
	// Rules mark a 403 on a matching endpoint as a business error.
	Rules []EndpointRule
	// SelfUpdate endpoints never end the session on 401 or 403.
	SelfUpdate []EndpointRule
}

// DefaultPolicy reproduces the rules the console has always applied.
func DefaultPolicy() *Policy {
	return &Policy{
		MessagePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)không thể\s*(xóa|sửa)`),
		},
		Rules: []EndpointRule{
			{Methods: []string{http.MethodPut, http.MethodDelete}, Path: regexp.MustCompile(`/api/sop-documents`)},
		},
		SelfUpdate: []EndpointRule{
			{Methods: []string{http.MethodPut}, Path: regexp.MustCompile(`/api/users/\d+$`)},
		},
	}
}

// IsBusiness reports whether a failed response should be surfaced to the
// caller with the session left intact.
func (p *Policy) IsBusiness(status int, method, path, message string) bool {
	if p == nil {
		return false
	}
	if status != http.StatusUnauthorized && status != http.StatusForbidden {
		return false
	}
	for _, rule := range p.SelfUpdate {
		if rule.Matches(method, path) {
			return true
		}
	}
	if status != http.StatusForbidden {
		return false
	}
	for _, re := range p.MessagePatterns {
		if message != "" && re.MatchString(message) {
			return true
		}
	}
	for _, rule := range p.Rules {
		if rule.Matches(method, path) {
			return true
		}
	}
	return false
}

type policyFile struct {
	MessagePatterns []string   `yaml:"messagePatterns"`
	Business        []ruleFile `yaml:"business"`
	SelfUpdate      []ruleFile `yaml:"selfUpdate"`
}

type ruleFile struct {
	Methods []string `yaml:"methods"`
	Path    string   `yaml:"path"`
}

// ParsePolicy reads a policy from YAML:
//
//	messagePatterns: ['(?i)không thể\s*(xóa|sửa)']
//	business:
//	  - methods: [PUT, DELETE]
//	    path: /api/sop-documents
//	selfUpdate:
//	  - methods: [PUT]
//	    path: '/api/users/\d+$'
func ParsePolicy(data []byte) (*Policy, error) {
	var raw policyFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("[apiclient ParsePolicy] decode: %w", err)
	}

	p := &Policy{}
	for _, pattern := range raw.MessagePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("[apiclient ParsePolicy] message pattern %q: %w", pattern, err)
		}
		p.MessagePatterns = append(p.MessagePatterns, re)
	}

	var err error
	if p.Rules, err = compileRules(raw.Business); err != nil {
		return nil, err
	}
	if p.SelfUpdate, err = compileRules(raw.SelfUpdate); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadPolicy reads a YAML policy file. An empty path returns DefaultPolicy.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[apiclient LoadPolicy] read %s: %w", path, err)
	}
	return ParsePolicy(data)
}

func compileRules(in []ruleFile) ([]EndpointRule, error) {
	rules := make([]EndpointRule, 0, len(in))
	for _, r := range in {
		if r.Path == "" {
			return nil, fmt.Errorf("[apiclient ParsePolicy] rule without a path")
		}
		re, err := regexp.Compile(r.Path)
		if err != nil {
			return nil, fmt.Errorf("[apiclient ParsePolicy] path %q: %w", r.Path, err)
		}
		methods := make([]string, 0, len(r.Methods))
		for _, m := range r.Methods {
			methods = append(methods, strings.ToUpper(m))
		}
		rules = append(rules, EndpointRule{Methods: methods, Path: re})
	}
	return rules, nil
}
