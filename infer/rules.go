// File: rules.go
// Role: Default trigger tables and category keyword groups.
//
// Every trigger is a lower-case substring. Overlapping triggers all count:
// "no power" and "outage" in one sentence both add to the score.

package infer

// Critical hazard triggers weigh 5 each.
var criticalRules = RuleGroup{
	Name: "critical hazard",
	Rules: []Rule{
		{Trigger: "gas leak", Weight: 5},
		{Trigger: "fire", Weight: 5},
		{Trigger: "collapse", Weight: 5},
		{Trigger: "explosion", Weight: 5},
		{Trigger: "electrocution", Weight: 5},
		{Trigger: "live wire", Weight: 5},
	},
}

var urgencyRules = RuleGroup{
	Name: "urgency",
	Rules: []Rule{
		{Trigger: "urgent", Weight: 3},
		{Trigger: "emergency", Weight: 3},
		{Trigger: "immediately", Weight: 2},
		{Trigger: "asap", Weight: 2},
		{Trigger: "as soon as possible", Weight: 2},
		{Trigger: "quickly", Weight: 1},
	},
}

var locationRules = RuleGroup{
	Name: "sensitive location",
	Rules: []Rule{
		{Trigger: "school", Weight: 3},
		{Trigger: "hospital", Weight: 3},
		{Trigger: "daycare", Weight: 3},
		{Trigger: "nursing home", Weight: 3},
		{Trigger: "clinic", Weight: 2},
		{Trigger: "playground", Weight: 2},
		{Trigger: "park", Weight: 1},
	},
}

var infrastructureRules = RuleGroup{
	Name: "infrastructure outage",
	Rules: []Rule{
		{Trigger: "power outage", Weight: 4},
		{Trigger: "no power", Weight: 4},
		{Trigger: "blackout", Weight: 4},
		{Trigger: "no water", Weight: 4},
		{Trigger: "water main", Weight: 3},
		{Trigger: "burst pipe", Weight: 3},
		{Trigger: "sewage", Weight: 3},
		{Trigger: "traffic light", Weight: 3},
		{Trigger: "streetlight", Weight: 2},
		{Trigger: "street light", Weight: 2},
		{Trigger: "pothole", Weight: 2},
		{Trigger: "outage", Weight: 2},
	},
}

var environmentalRules = RuleGroup{
	Name: "environmental hazard",
	Rules: []Rule{
		{Trigger: "flood", Weight: 3},
		{Trigger: "chemical spill", Weight: 3},
		{Trigger: "toxic", Weight: 3},
		{Trigger: "fallen tree", Weight: 3},
		{Trigger: "sinkhole", Weight: 3},
		{Trigger: "spill", Weight: 2},
		{Trigger: "smoke", Weight: 2},
		{Trigger: "mold", Weight: 2},
	},
}

var securityRules = RuleGroup{
	Name: "security incident",
	Rules: []Rule{
		{Trigger: "break-in", Weight: 3},
		{Trigger: "assault", Weight: 3},
		{Trigger: "vandal", Weight: 2},
		{Trigger: "theft", Weight: 2},
		{Trigger: "stolen", Weight: 2},
		{Trigger: "suspicious", Weight: 1},
		{Trigger: "trespass", Weight: 1},
		{Trigger: "graffiti", Weight: 1},
	},
}

// demotionRules run after every scoring group.
var demotionRules = RuleGroup{
	Name: "demotion",
	Rules: []Rule{
		{Trigger: "this is a test", Weight: -5},
		{Trigger: "training", Weight: -3},
		{Trigger: "drill", Weight: -3},
		{Trigger: "routine", Weight: -2},
		{Trigger: "scheduled", Weight: -2},
		{Trigger: "not urgent", Weight: -5},
		{Trigger: "no rush", Weight: -3},
		{Trigger: "low priority", Weight: -3},
		{Trigger: "whenever", Weight: -2},
	},
}

// defaultRuleGroups is the scoring order; demotions are appended by the engine.
func defaultRuleGroups() []RuleGroup {
	return []RuleGroup{
		criticalRules,
		urgencyRules,
		locationRules,
		infrastructureRules,
		environmentalRules,
		securityRules,
	}
}

// defaultCategoryGroups is checked in order; the first group with a keyword
// in the text names the category. "gas" and "leak" sit under Utilities so
// the heaviest hazard trigger also yields a specific category.
func defaultCategoryGroups() []CategoryGroup {
	return []CategoryGroup{
		{Category: "Utilities", Keywords: []string{"water", "sewer", "sewage", "pipe", "power", "outage", "meter", "gas", "leak"}},
		{Category: "Electrical", Keywords: []string{"electrical", "wire", "wiring", "streetlight", "street light", "outlet", "transformer"}},
		{Category: "Infrastructure", Keywords: []string{"pothole", "road", "sidewalk", "bridge", "traffic light", "signal", "drain"}},
		{Category: "Waste", Keywords: []string{"garbage", "trash", "litter", "dumping", "recycling", "bin"}},
		{Category: "Safety", Keywords: []string{"vandal", "break-in", "theft", "suspicious", "assault", "unsafe", "hazard"}},
		{Category: "Fire", Keywords: []string{"fire", "smoke", "burn", "explosion"}},
		{Category: "Parks", Keywords: []string{"park", "playground", "tree", "bench", "grass"}},
		{Category: "Environmental", Keywords: []string{"flood", "spill", "toxic", "pollution", "mold", "noise"}},
	}
}
