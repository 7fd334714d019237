package domain

// ExampleQuery is a suggested question shown to new users.
type ExampleQuery struct {
	Category string
	Text     string
}

// ExampleQueries returns the suggested questions grouped by category.
func ExampleQueries() []ExampleQuery {
	return []ExampleQuery{
		{Category: "Ticket Management", Text: "How do I create a ticket using the API?"},
		{Category: "Ticket Management", Text: "How do I update the priority of a ticket?"},
		{Category: "Authentication", Text: "How do I authenticate API requests?"},
		{Category: "Authentication", Text: "What are the API rate limits?"},
		{Category: "User Management", Text: "How do I create a new requester?"},
		{Category: "User Management", Text: "How do I list all agents?"},
		{Category: "Configuration", Text: "How do I configure custom fields?"},
		{Category: "Configuration", Text: "How do I set up SLA policies?"},
	}
}
