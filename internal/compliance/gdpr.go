// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package compliance holds the rule-based GDPR and AI-Act scoring
// heuristics. Both are pure functions over a free-text description of a
// processing activity or AI system: they match fixed keyword tables and
// report findings with the provision each rule derives from. They are
// screening aids, not legal advice.
package compliance

import (
	"strings"
)

// Severity grades a finding.
type Severity string

const (
	// SeverityInfo flags something worth documenting.
	SeverityInfo Severity = "info"
	// SeverityWarning flags likely obligations.
	SeverityWarning Severity = "warning"
	// SeverityCritical flags provisions that commonly block processing.
	SeverityCritical Severity = "critical"
)

// Finding is one matched rule.
type Finding struct {
	Rule      string   `json:"rule"`
	Severity  Severity `json:"severity"`
	Provision string   `json:"provision"`
	Detail    string   `json:"detail"`
}

// GDPRReport is the outcome of a GDPR screening.
type GDPRReport struct {
	// RiskLevel is low, medium, or high, derived from the worst finding.
	RiskLevel string `json:"risk_level"`

	// Findings lists matched rules, in table order.
	Findings []Finding `json:"findings"`

	// DPIARecommended is set when the description triggers an Art. 35
	// data-protection impact assessment indicator.
	DPIARecommended bool `json:"dpia_recommended"`
}

// gdprRule matches any of its keywords against the lowercased input.
type gdprRule struct {
	name      string
	keywords  []string
	severity  Severity
	provision string
	detail    string
	dpia      bool
}

// gdprRules is a fixed table; it is deliberately not configurable so
// identical input always produces identical output.
var gdprRules = []gdprRule{
	{
		name:      "special-category-data",
		keywords:  []string{"health", "medical", "biometric", "genetic", "religion", "religious", "ethnic", "sexual orientation", "political opinion", "trade union"},
		severity:  SeverityCritical,
		provision: "GDPR Art. 9",
		detail:    "Processing of special categories of personal data requires an Art. 9(2) exception.",
		dpia:      true,
	},
	{
		name:      "children-data",
		keywords:  []string{"children", "child", "minor", "under 16"},
		severity:  SeverityCritical,
		provision: "GDPR Art. 8",
		detail:    "Processing children's data requires verified parental consent and age verification.",
	},
	{
		name:      "automated-decision-making",
		keywords:  []string{"automated decision", "profiling", "automatic rejection", "algorithmic decision"},
		severity:  SeverityWarning,
		provision: "GDPR Art. 22",
		detail:    "Solely automated decisions with legal or similar effect require human intervention rights.",
		dpia:      true,
	},
	{
		name:      "third-country-transfer",
		keywords:  []string{"third country", "outside the eu", "united states", "transfer abroad", "non-eu"},
		severity:  SeverityWarning,
		provision: "GDPR Ch. V",
		detail:    "Transfers outside the EEA need an adequacy decision or appropriate safeguards.",
	},
	{
		name:      "large-scale-monitoring",
		keywords:  []string{"tracking", "surveillance", "monitoring", "cctv", "location data"},
		severity:  SeverityWarning,
		provision: "GDPR Art. 35",
		detail:    "Systematic monitoring on a large scale is a DPIA trigger.",
		dpia:      true,
	},
	{
		name:      "retention-unbounded",
		keywords:  []string{"indefinitely", "no retention", "kept forever", "permanent storage"},
		severity:  SeverityWarning,
		provision: "GDPR Art. 5(1)(e)",
		detail:    "Storage limitation requires a defined retention period.",
	},
}

// legalBasisKeywords indicate the description names an Art. 6 basis.
var legalBasisKeywords = []string{
	"consent", "contract", "legal obligation", "vital interest",
	"public task", "legitimate interest",
}

// AssessGDPR screens a processing-activity description against the rule
// table. Deterministic: same input, same report.
func AssessGDPR(description string) GDPRReport {
	text := strings.ToLower(description)

	report := GDPRReport{RiskLevel: "low"}
	for _, rule := range gdprRules {
		if !matchesAny(text, rule.keywords) {
			continue
		}
		report.Findings = append(report.Findings, Finding{
			Rule:      rule.name,
			Severity:  rule.severity,
			Provision: rule.provision,
			Detail:    rule.detail,
		})
		if rule.dpia {
			report.DPIARecommended = true
		}
	}

	if !matchesAny(text, legalBasisKeywords) {
		report.Findings = append(report.Findings, Finding{
			Rule:      "no-legal-basis-stated",
			Severity:  SeverityWarning,
			Provision: "GDPR Art. 6",
			Detail:    "The description names no lawful basis for processing.",
		})
	}

	report.RiskLevel = riskLevel(report.Findings)
	return report
}

// riskLevel derives the overall level from the worst finding.
func riskLevel(findings []Finding) string {
	level := "low"
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			return "high"
		case SeverityWarning:
			level = "medium"
		}
	}
	return level
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
