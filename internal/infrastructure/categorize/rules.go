package categorize

// DefaultOpportunityRules is the built-in improvement taxonomy. Order is
// deliberate: earlier categories outrank later ones when a text matches
// several. Triggers cover English and French source models.
func DefaultOpportunityRules() RuleTable {
	return RuleTable{
		Fallback: "Other Improvements",
		Rules: []Rule{
			{Category: "Process Automation", Triggers: []string{
				"automat", "robot", "script", "api", "integration", "automatique", "robotisation",
			}},
			{Category: "Process Optimization", Triggers: []string{
				"optim", "efficien", "streamlin", "simplif", "optimisation", "efficacité", "simplification",
			}},
			{Category: "Cost Reduction", Triggers: []string{
				"cost", "reduc", "sav", "budget", "coût", "réduction", "économie",
			}},
			{Category: "Time Savings", Triggers: []string{
				"time", "speed", "fast", "quick", "temps", "vitesse", "rapide", "accélération",
			}},
			{Category: "Quality Improvement", Triggers: []string{
				"qualit", "accurac", "error", "mistake", "qualité", "précision", "erreur",
			}},
			{Category: "Communication & Collaboration", Triggers: []string{
				"communic", "collabor", "team", "coordin", "communication", "collaboration", "équipe", "coordination",
			}},
			{Category: "Tool & System Improvement", Triggers: []string{
				"tool", "software", "system", "platform", "outil", "logiciel", "système", "plateforme",
			}},
			{Category: "Training & Knowledge", Triggers: []string{
				"train", "skill", "knowledge", "learn", "formation", "compétence", "connaissance", "apprentissage",
			}},
			{Category: "Risk & Compliance", Triggers: []string{
				"risk", "safet", "complian", "govern", "risque", "sécurité", "conformité", "gouvernance",
			}},
			{Category: "Templates & Standards", Triggers: []string{
				"template", "modèle", "standard", "standardisation", "standardization",
			}},
			{Category: "Product & Configuration", Triggers: []string{
				"product", "produit", "créateur", "creator", "configuration",
			}},
		},
	}
}

// DefaultIssueRules is the built-in issue taxonomy, ordered the same way.
func DefaultIssueRules() RuleTable {
	return RuleTable{
		Fallback: "Other Issues",
		Rules: []Rule{
			{Category: "System Errors", Triggers: []string{
				"error", "bug", "fail", "break", "crash", "erreur", "échec", "panne",
			}},
			{Category: "Delays & Bottlenecks", Triggers: []string{
				"delay", "slow", "wait", "bottleneck", "queue", "retard", "lent", "attendre", "goulot",
			}},
			{Category: "Missing Information", Triggers: []string{
				"miss", "forget", "overlook", "lost", "misplace", "oublie", "perdu", "manque", "oublié",
			}},
			{Category: "Unclear Processes", Triggers: []string{
				"confus", "unclear", "vague", "ambiguous", "imprécis",
			}},
			{Category: "Duplication & Waste", Triggers: []string{
				"duplic", "repeat", "redundant", "waste", "duplication", "répétition", "redondant", "gaspillage",
			}},
			{Category: "Communication Issues", Triggers: []string{
				"communic", "misunderstand", "conflict", "disagreement", "communication", "malentendu", "conflit",
			}},
			{Category: "Skill Gaps", Triggers: []string{
				"skill", "train", "knowledge", "expertise", "compétence", "formation", "connaissance",
			}},
			{Category: "Tool & System Issues", Triggers: []string{
				"tool", "software", "system", "platform", "outil", "logiciel", "système",
			}},
			{Category: "Cost Issues", Triggers: []string{
				"cost", "expens", "budget", "overrun", "coût", "dépense",
			}},
			{Category: "Quality Issues", Triggers: []string{
				"qualit", "defect", "inconsist", "variance", "qualité", "défaut", "incohérence",
			}},
			{Category: "Manual vs Automation", Triggers: []string{
				"manuel", "manual", "automat", "automatique", "automatization",
			}},
			{Category: "Risk & Safety", Triggers: []string{
				"risque", "risk", "danger", "dangerous", "sécurité", "security",
			}},
			{Category: "Time & Efficiency", Triggers: []string{
				"temps", "time", "perte", "loss", "gaspillage",
			}},
			{Category: "Production & Planning", Triggers: []string{
				"production", "manufacturing", "fabrication", "planification", "planning",
			}},
		},
	}
}
