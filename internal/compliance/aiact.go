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

package compliance

import (
	"strings"
)

// RiskTier is the AI-Act classification of a described system.
type RiskTier string

const (
	// TierProhibited covers Art. 5 practices.
	TierProhibited RiskTier = "prohibited"
	// TierHighRisk covers Annex III areas.
	TierHighRisk RiskTier = "high-risk"
	// TierLimitedRisk covers Art. 50 transparency cases.
	TierLimitedRisk RiskTier = "limited-risk"
	// TierMinimalRisk covers everything else.
	TierMinimalRisk RiskTier = "minimal-risk"
)

// AIActReport is the outcome of an AI-Act screening.
type AIActReport struct {
	Tier RiskTier `json:"risk_tier"`

	// Findings lists matched classification rules.
	Findings []Finding `json:"findings"`

	// Obligations lists what the resulting tier requires.
	Obligations []string `json:"obligations"`
}

type aiActRule struct {
	name      string
	keywords  []string
	tier      RiskTier
	provision string
	detail    string
}

// aiActRules is ordered from most to least severe; classification takes
// the most severe matching tier.
var aiActRules = []aiActRule{
	{
		name:      "social-scoring",
		keywords:  []string{"social scoring", "social credit"},
		tier:      TierProhibited,
		provision: "AI Act Art. 5(1)(c)",
		detail:    "Social scoring of natural persons by or for public authorities is prohibited.",
	},
	{
		name:      "manipulative-techniques",
		keywords:  []string{"subliminal", "manipulative technique", "exploit vulnerabilities"},
		tier:      TierProhibited,
		provision: "AI Act Art. 5(1)(a)",
		detail:    "Subliminal or purposefully manipulative techniques causing harm are prohibited.",
	},
	{
		name:      "realtime-remote-biometrics",
		keywords:  []string{"real-time biometric", "live facial recognition", "public biometric identification"},
		tier:      TierProhibited,
		provision: "AI Act Art. 5(1)(h)",
		detail:    "Real-time remote biometric identification in publicly accessible spaces is prohibited for law enforcement, narrow exceptions aside.",
	},
	{
		name:      "employment-decisions",
		keywords:  []string{"hiring", "recruitment", "cv screening", "promotion decision", "termination decision"},
		tier:      TierHighRisk,
		provision: "AI Act Annex III(4)",
		detail:    "AI used in employment and worker-management decisions is high-risk.",
	},
	{
		name:      "credit-scoring",
		keywords:  []string{"credit scoring", "creditworthiness", "loan approval"},
		tier:      TierHighRisk,
		provision: "AI Act Annex III(5)(b)",
		detail:    "Creditworthiness evaluation of natural persons is high-risk.",
	},
	{
		name:      "law-enforcement",
		keywords:  []string{"law enforcement", "predictive policing", "crime risk assessment"},
		tier:      TierHighRisk,
		provision: "AI Act Annex III(6)",
		detail:    "AI supporting law-enforcement assessments of natural persons is high-risk.",
	},
	{
		name:      "migration-border",
		keywords:  []string{"asylum", "visa application", "border control", "migration"},
		tier:      TierHighRisk,
		provision: "AI Act Annex III(7)",
		detail:    "AI used in migration, asylum, and border-control management is high-risk.",
	},
	{
		name:      "education-scoring",
		keywords:  []string{"exam scoring", "student assessment", "admission decision"},
		tier:      TierHighRisk,
		provision: "AI Act Annex III(3)",
		detail:    "AI determining access to education or evaluating learning outcomes is high-risk.",
	},
	{
		name:      "essential-services",
		keywords:  []string{"critical infrastructure", "essential public service", "emergency dispatch"},
		tier:      TierHighRisk,
		provision: "AI Act Annex III(2)",
		detail:    "Safety components of critical infrastructure are high-risk.",
	},
	{
		name:      "chatbot-transparency",
		keywords:  []string{"chatbot", "conversational agent", "virtual assistant"},
		tier:      TierLimitedRisk,
		provision: "AI Act Art. 50(1)",
		detail:    "Persons interacting with an AI system must be informed they are doing so.",
	},
	{
		name:      "synthetic-content",
		keywords:  []string{"deepfake", "synthetic media", "generated content"},
		tier:      TierLimitedRisk,
		provision: "AI Act Art. 50(4)",
		detail:    "Synthetic or manipulated content must be disclosed as such.",
	},
	{
		name:      "emotion-recognition",
		keywords:  []string{"emotion recognition", "emotion detection"},
		tier:      TierLimitedRisk,
		provision: "AI Act Art. 50(3)",
		detail:    "Exposure to emotion recognition must be disclosed to the persons concerned.",
	},
}

// tierObligations summarizes what each tier requires.
var tierObligations = map[RiskTier][]string{
	TierProhibited: {
		"Do not place this system on the EU market; the practice is banned outright.",
	},
	TierHighRisk: {
		"Establish a risk-management system covering the full lifecycle (Art. 9).",
		"Ensure data governance and representative training data (Art. 10).",
		"Maintain technical documentation and logging (Arts. 11-12).",
		"Provide human oversight and accuracy/robustness measures (Arts. 14-15).",
		"Complete conformity assessment and CE marking before deployment (Art. 43).",
	},
	TierLimitedRisk: {
		"Meet the Art. 50 transparency duties for the matched interaction type.",
	},
	TierMinimalRisk: {
		"No mandatory obligations; voluntary codes of conduct apply (Art. 95).",
	},
}

// severityFor maps a tier to a finding severity.
func severityFor(tier RiskTier) Severity {
	switch tier {
	case TierProhibited:
		return SeverityCritical
	case TierHighRisk:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// AssessAIAct classifies a described AI system. The most severe matching
// tier wins; all matched rules are reported.
func AssessAIAct(description string) AIActReport {
	text := strings.ToLower(description)

	report := AIActReport{Tier: TierMinimalRisk}
	for _, rule := range aiActRules {
		if !matchesAny(text, rule.keywords) {
			continue
		}
		report.Findings = append(report.Findings, Finding{
			Rule:      rule.name,
			Severity:  severityFor(rule.tier),
			Provision: rule.provision,
			Detail:    rule.detail,
		})
		if tierRank(rule.tier) > tierRank(report.Tier) {
			report.Tier = rule.tier
		}
	}

	report.Obligations = tierObligations[report.Tier]
	return report
}

func tierRank(tier RiskTier) int {
	switch tier {
	case TierProhibited:
		return 3
	case TierHighRisk:
		return 2
	case TierLimitedRisk:
		return 1
	default:
		return 0
	}
}
