package prompt

// Type names a prompt slot: one per analysis category, plus the
// valuation prompt.
type Type string

const (
	TypeSecurity        Type = "security"
	TypeCodeQuality     Type = "code_quality"
	TypePerformance     Type = "performance"
	TypeBugs            Type = "bugs"
	TypeMaintainability Type = "maintainability"
	TypeArchitecture    Type = "architecture"
	TypeValuation       Type = "valuation"
)

// Types lists every prompt slot a user can override.
var Types = []Type{
	TypeSecurity,
	TypeCodeQuality,
	TypePerformance,
	TypeBugs,
	TypeMaintainability,
	TypeArchitecture,
	TypeValuation,
}

const resultFormat = `Response JSON format (make sure every string is properly closed):
{
  "score": number,
  "summary": "concise overall summary",
  "issues": [
    {
      "severity": "critical|high|medium|low|info",
      "title": "short title",
      "description": "concise description",
      "file_path": "path/file.js",
      "line_number": number,
      "code_snippet": "relevant code (max 3 lines)",
      "suggested_fix": "how to fix it (brief)"
    }
  ],
  "recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"]
}`

const issueBudget = `IMPORTANT: If there are many similar problems, group them into a single issue. Prioritize the most critical ones (critical and high). Limit the response to at most 15 issues to keep it manageable.`

// defaults holds the built-in prompt per slot. The text itself is
// configuration; callers treat it as opaque.
var defaults = map[Type]string{
	TypeSecurity: `You are a software security expert. Analyze the following code and assess its security.

Look specifically for:
- Injection vulnerabilities (SQL, XSS, command injection)
- Authentication and authorization problems
- Unsafe handling of sensitive data
- Exposure of confidential information
- Inadequate input validation
- Insecure configuration
- Dependencies with known vulnerabilities

` + issueBudget + `

For every problem found, provide severity, a concise description, the location in the code, the potential impact, and a suggested fix. Include the potential impact in an "impact" field per issue.

Rate the overall security on a scale of 1-10 (10 = very secure, 1 = very insecure).

` + resultFormat,

	TypeCodeQuality: `You are an expert in code quality and best practices. Analyze the following code and assess its quality.

Look specifically for:
- Readability and clarity
- Cyclomatic complexity
- Code duplication
- Variable and function naming
- Structure and organization
- Comments and documentation
- Adherence to language conventions
- SOLID principles

` + issueBudget + `

Rate the overall quality on a scale of 1-10 (10 = excellent quality, 1 = very poor).

` + resultFormat,

	TypePerformance: `You are a software performance expert. Analyze the following code and assess its efficiency.

Look specifically for:
- Inefficient algorithms and data structures
- Unnecessary work inside loops
- Memory leaks and excessive allocation
- Blocking operations and missing concurrency
- Redundant network or database round trips
- Missing caching opportunities

` + issueBudget + `

Describe the performance cost of each issue in a "performance_impact" field.

Rate the overall performance on a scale of 1-10 (10 = highly optimized, 1 = severely inefficient).

` + resultFormat,

	TypeBugs: `You are an expert bug hunter. Analyze the following code and find defects.

Look specifically for:
- Logic errors and off-by-one mistakes
- Null/undefined handling problems
- Race conditions
- Unhandled error paths
- Incorrect edge-case behavior
- Type coercion surprises

` + issueBudget + `

Where possible include how to reproduce the defect in a "reproduction" field.

Rate the overall defect level on a scale of 1-10 (10 = no apparent defects, 1 = riddled with bugs).

` + resultFormat,

	TypeMaintainability: `You are an expert in software maintainability. Analyze the following code and assess how easy it is to evolve.

Look specifically for:
- Coupling and cohesion
- Test coverage and testability
- Documentation quality
- Dead or duplicated code
- Dependency hygiene
- Consistency of style and structure

` + issueBudget + `

Rate the overall maintainability on a scale of 1-10 (10 = very easy to maintain, 1 = unmaintainable).

` + resultFormat,

	TypeArchitecture: `You are a software architecture expert. Analyze the following code and assess its design.

Look specifically for:
- Separation of concerns and layering
- Scalability bottlenecks
- Inappropriate dependencies between modules
- Missing abstractions or over-engineering
- Error-handling strategy
- Configuration and deployment concerns

` + issueBudget + `

Describe the design consequences of each issue in an "architectural_impact" field.

Rate the overall architecture on a scale of 1-10 (10 = excellent design, 1 = no discernible design).

` + resultFormat,

	TypeValuation: valuationPrompt,
}

// Default returns the built-in prompt for the given slot.
func Default(t Type) string {
	return defaults[t]
}
