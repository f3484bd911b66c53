package assess

import "fmt"

// Rule IDs. They are stable and can be listed in the config to disable a rule.
const (
	RuleMissingEntityFiles   = "missing-entity-files"
	RuleMultipleDefinitions  = "multiple-definitions"
	RuleShadowedEntities     = "shadowed-entities"
	RuleMissingPrimaryKey    = "missing-primary-key"
	RuleNamingConvention     = "naming-convention"
	RuleFunctionInJoin       = "function-in-join"
	RuleMissingRelationship  = "missing-relationship"
	RuleLargeProject         = "large-project"
	RuleRootDescriptions     = "root-descriptions"
	RuleExtendsCycle         = "extends-cycle"
	RuleUnknownExtends       = "unknown-extends"
	RuleFileIntegrity        = "file-integrity"
	RuleConsistentNaming     = "consistent-naming"
	RuleJoinStructure        = "join-structure"
	RuleCleanJoinConditions  = "clean-join-conditions"
	RuleExplicitRelationship = "explicit-relationships"
	RuleDocumentedRoots      = "documented-roots"
)

// DefaultRules returns the built-in rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{ID: RuleMissingEntityFiles, Severity: SeverityCritical, Check: missingEntityFiles},
		{ID: RuleMultipleDefinitions, Severity: SeverityRecommendation, Check: multipleDefinitions},
		{ID: RuleShadowedEntities, Severity: SeverityRecommendation, Check: shadowedEntities},
		{ID: RuleMissingPrimaryKey, Severity: SeverityCritical, Check: missingPrimaryKey},
		{ID: RuleNamingConvention, Severity: SeverityRecommendation, Check: namingConvention},
		{ID: RuleFunctionInJoin, Severity: SeverityCritical, Check: functionInJoin},
		{ID: RuleMissingRelationship, Severity: SeverityRecommendation, Check: missingRelationship},
		{ID: RuleLargeProject, Severity: SeverityRecommendation, Check: largeProject},
		{ID: RuleRootDescriptions, Severity: SeverityRecommendation, Check: rootDescriptions},
		{ID: RuleExtendsCycle, Severity: SeverityCritical, Check: extendsCycle},
		{ID: RuleUnknownExtends, Severity: SeverityCritical, Check: unknownExtends},

		{ID: RuleFileIntegrity, Severity: SeverityPositive, Check: fileIntegrity},
		{ID: RuleConsistentNaming, Severity: SeverityPositive, Check: consistentNaming},
		{ID: RuleJoinStructure, Severity: SeverityPositive, Check: joinStructure},
		{ID: RuleCleanJoinConditions, Severity: SeverityPositive, Check: cleanJoinConditions},
		{ID: RuleExplicitRelationship, Severity: SeverityPositive, Check: explicitRelationships},
		{ID: RuleDocumentedRoots, Severity: SeverityPositive, Check: documentedRoots},
	}
}

// RuleIDs lists the IDs of the built-in rules.
func RuleIDs() []string {
	rules := DefaultRules()
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID
	}
	return ids
}

func missingEntityFiles(c *Context) *Finding {
	if len(c.Unresolved) == 0 {
		return nil
	}
	return &Finding{
		Title:  "Missing View Files",
		Detail: "The model refers to views that could not be found in the views directory. This will cause validation errors in Looker.",
		Items:  c.Unresolved,
	}
}

func multipleDefinitions(c *Context) *Finding {
	if len(c.Analysis.MultiDefinitionFiles) == 0 {
		return nil
	}
	return &Finding{
		Title:  "One View per File",
		Detail: "Define only one view per view file to improve readability and reduce merge conflicts. The following files contain multiple view definitions:",
		Items:  c.Analysis.MultiDefinitionFiles,
	}
}

func shadowedEntities(c *Context) *Finding {
	if len(c.Analysis.Shadowed) == 0 {
		return nil
	}
	return &Finding{
		Title:  "Duplicate View Names",
		Detail: "The following views are defined in more than one file. Only the last definition found is used for the analysis:",
		Items:  c.Analysis.Shadowed,
	}
}

func missingPrimaryKey(c *Context) *Finding {
	if len(c.Analysis.MissingPrimaryKey) == 0 {
		return nil
	}
	return &Finding{
		Title:  "Views Joined Without a Primary Key",
		Detail: "A view should have a primary key to be safely used in a join. This prevents incorrect fanouts and ensures accurate measures. The following views are joined without a detectable primary key:",
		Items:  c.Analysis.MissingPrimaryKey,
	}
}

func namingConvention(c *Context) *Finding {
	if len(c.NamingViolations) == 0 {
		return nil
	}
	return &Finding{
		Title:  "View Naming Convention",
		Detail: "Use snake_case for view names. The following views deviate from this convention:",
		Items:  c.NamingViolations,
	}
}

func functionInJoin(c *Context) *Finding {
	if len(c.Analysis.SQLFunctionJoins) == 0 {
		return nil
	}
	return &Finding{
		Title:  "Functions in Join Conditions",
		Detail: "Join conditions that call SQL functions prevent index use and are easy to get wrong. The following joins call a function in sql_on:",
		Items:  c.Analysis.SQLFunctionJoins,
	}
}

func missingRelationship(c *Context) *Finding {
	if len(c.Analysis.MissingRelationship) == 0 {
		return nil
	}
	return &Finding{
		Title:  "Joins Without a Relationship",
		Detail: "Every join should declare its relationship so that measures aggregate correctly. The following joins rely on the default:",
		Items:  c.Analysis.MissingRelationship,
	}
}

func largeProject(c *Context) *Finding {
	p := c.Analysis.Project
	if p.Roots <= c.Thresholds.MaxRoots && p.Entities <= c.Thresholds.MaxEntities {
		return nil
	}
	return &Finding{
		Title: "Large Project",
		Detail: fmt.Sprintf("The project has %d explore(s) and %d view(s). Consider organizing LookML into domain-specific folders if you are not already doing so.",
			p.Roots, p.Entities),
	}
}

func rootDescriptions(c *Context) *Finding {
	d := c.Analysis.Descriptions
	pct, ok := d.RootPercent()
	if !ok || d.RootsWithDescription == d.TotalRoots {
		return nil
	}
	return &Finding{
		Title: "Explore Descriptions",
		Detail: fmt.Sprintf("%.0f%% of explores have a description. Adding descriptions to all explores improves usability for business users.",
			pct),
	}
}

func extendsCycle(c *Context) *Finding {
	if len(c.Analysis.ExtendsCycles) == 0 {
		return nil
	}
	return &Finding{
		Title:  "Circular Extends",
		Detail: "These views extend each other in a loop, which Looker rejects:",
		Items:  c.Analysis.ExtendsCycles,
	}
}

func unknownExtends(c *Context) *Finding {
	if len(c.Analysis.UnknownExtends) == 0 {
		return nil
	}
	return &Finding{
		Title:  "Extends Missing Views",
		Detail: "These views extend a view that could not be found in the views directory:",
		Items:  c.Analysis.UnknownExtends,
	}
}

func fileIntegrity(c *Context) *Finding {
	if len(c.Unresolved) > 0 {
		return nil
	}
	return &Finding{
		Title:  "Good File Integrity",
		Detail: "All views referenced in models were located in the views directory.",
	}
}

func consistentNaming(c *Context) *Finding {
	if len(c.NamingViolations) > 0 || len(c.EntityNames) == 0 {
		return nil
	}
	return &Finding{
		Title:  "Consistent Naming",
		Detail: "All view names follow the snake_case convention.",
	}
}

func joinStructure(c *Context) *Finding {
	if len(c.Analysis.MissingPrimaryKey) > 0 {
		return nil
	}
	return &Finding{
		Title:  "Correct Join Structure",
		Detail: "All views used in joins have a primary key defined.",
	}
}

func cleanJoinConditions(c *Context) *Finding {
	if len(c.Analysis.SQLFunctionJoins) > 0 {
		return nil
	}
	return &Finding{
		Title:  "Clean Join Conditions",
		Detail: "No join condition calls a SQL function.",
	}
}

func explicitRelationships(c *Context) *Finding {
	if len(c.Analysis.MissingRelationship) > 0 {
		return nil
	}
	return &Finding{
		Title:  "Explicit Relationships",
		Detail: "Every join declares its relationship.",
	}
}

func documentedRoots(c *Context) *Finding {
	d := c.Analysis.Descriptions
	if d.TotalRoots == 0 || d.RootsWithDescription < d.TotalRoots {
		return nil
	}
	return &Finding{
		Title:  "Documented Explores",
		Detail: "Every explore has a description.",
	}
}
