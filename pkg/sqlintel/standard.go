package sqlintel

// DocEntry is a completion label with its hover documentation.
type DocEntry struct {
	Label string
	Doc   string
}

// StandardKeywords are the dialect-independent keywords offered everywhere,
// with short hover docs.
var StandardKeywords = []DocEntry{
	{"SELECT", "Query rows from table(s)"},
	{"INSERT", "Insert new rows"},
	{"UPDATE", "Update existing rows"},
	{"DELETE", "Delete rows"},
	{"CREATE", "Create database object"},
	{"ALTER", "Modify database object"},
	{"DROP", "Remove database object"},
	{"TRUNCATE", "Remove all rows from table"},
	{"FROM", "Specify source table(s)"},
	{"WHERE", "Filter rows with predicates"},
	{"JOIN", "Combine rows from tables"},
	{"INNER JOIN", "Inner join tables"},
	{"LEFT JOIN", "Left outer join"},
	{"RIGHT JOIN", "Right outer join"},
	{"FULL JOIN", "Full outer join"},
	{"CROSS JOIN", "Cross product of tables"},
	{"ON", "Join condition"},
	{"USING", "Join using common columns"},
	{"GROUP BY", "Group rows for aggregation"},
	{"HAVING", "Filter grouped rows"},
	{"ORDER BY", "Sort result set"},
	{"ASC", "Ascending order"},
	{"DESC", "Descending order"},
	{"LIMIT", "Limit number of rows"},
	{"OFFSET", "Skip rows"},
	{"VALUES", "Specify values for INSERT"},
	{"INTO", "Target table for INSERT"},
	{"SET", "Set column values for UPDATE"},
	{"AND", "Logical AND"},
	{"OR", "Logical OR"},
	{"NOT", "Logical NOT"},
	{"IN", "Value in list"},
	{"EXISTS", "Subquery returns rows"},
	{"BETWEEN", "Value in range"},
	{"LIKE", "Pattern matching"},
	{"IS NULL", "Check for NULL"},
	{"IS NOT NULL", "Check for non-NULL"},
	{"AS", "Alias"},
	{"DISTINCT", "Remove duplicates"},
	{"ALL", "Include all rows"},
	{"UNION", "Combine result sets"},
	{"UNION ALL", "Combine without dedup"},
	{"INTERSECT", "Common rows"},
	{"EXCEPT", "Difference of sets"},
	{"CASE", "Conditional expression"},
	{"WHEN", "Condition in CASE"},
	{"THEN", "Result in CASE"},
	{"ELSE", "Default in CASE"},
	{"END", "End CASE expression"},
	{"WITH", "Common table expression"},
	{"TABLE", "Table keyword"},
	{"INDEX", "Index keyword"},
	{"VIEW", "View keyword"},
	{"PRIMARY KEY", "Primary key constraint"},
	{"FOREIGN KEY", "Foreign key constraint"},
	{"REFERENCES", "Reference constraint"},
	{"UNIQUE", "Unique constraint"},
	{"CHECK", "Check constraint"},
	{"DEFAULT", "Default value"},
	{"NOT NULL", "Not null constraint"},
	{"NULL", "NULL value"},
	{"TRUE", "Boolean true"},
	{"FALSE", "Boolean false"},
}

// StandardFunctions are the dialect-independent function signatures. Hover
// lookup matches on the name before the opening parenthesis.
var StandardFunctions = []DocEntry{
	{"COUNT(*)", "Count all rows"},
	{"COUNT(col)", "Count non-NULL values"},
	{"SUM(col)", "Sum of values"},
	{"AVG(col)", "Average value"},
	{"MIN(col)", "Minimum value"},
	{"MAX(col)", "Maximum value"},
	{"COALESCE(val1, val2, ...)", "First non-NULL value"},
	{"NULLIF(val1, val2)", "NULL if values equal"},
	{"CAST(expr AS type)", "Type conversion"},
	{"UPPER(str)", "Convert to uppercase"},
	{"LOWER(str)", "Convert to lowercase"},
	{"TRIM(str)", "Remove whitespace"},
	{"LENGTH(str)", "String length"},
	{"SUBSTRING(str, pos, len)", "Extract substring"},
	{"CONCAT(str1, str2)", "Concatenate strings"},
	{"REPLACE(str, from, to)", "Replace substring"},
	{"ABS(x)", "Absolute value"},
	{"ROUND(x, d)", "Round number"},
	{"FLOOR(x)", "Round down"},
	{"CEIL(x)", "Round up"},
	{"NOW()", "Current timestamp"},
	{"CURRENT_DATE", "Current date"},
	{"CURRENT_TIME", "Current time"},
}

// Snippet is an insertable SQL template using LSP snippet placeholders.
type Snippet struct {
	Label string
	Body  string
	Doc   string
}

// StandardSnippets are offered at statement start only.
var StandardSnippets = []Snippet{
	{"sel*", "SELECT * FROM $1 WHERE $2", "Select all columns"},
	{"selc", "SELECT COUNT(*) FROM $1 WHERE $2", "Count rows"},
	{"ins", "INSERT INTO $1 ($2) VALUES ($3)", "Insert row"},
	{"upd", "UPDATE $1 SET $2 WHERE $3", "Update rows"},
	{"del", "DELETE FROM $1 WHERE $2", "Delete rows"},
}
