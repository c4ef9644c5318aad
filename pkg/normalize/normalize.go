package normalize

import "strings"

// QueryKey normalizes a lookup query so that equivalent queries collide
// on the same cache key: lower-cased, trimmed, inner whitespace collapsed
// to single spaces.
func QueryKey(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// CompanyKey builds a normalized key for company-scoped lookups. The
// website, when present, disambiguates companies that share a name.
func CompanyKey(companyName, website string) string {
	key := QueryKey(companyName)
	if site := normalizeWebsite(website); site != "" {
		key = key + "|" + site
	}
	return key
}

// PersonKey builds a normalized key for person-scoped lookups.
func PersonKey(firstName, lastName, companyName string) string {
	return QueryKey(firstName + " " + lastName + " " + companyName)
}

func normalizeWebsite(website string) string {
	site := strings.ToLower(strings.TrimSpace(website))
	site = strings.TrimPrefix(site, "https://")
	site = strings.TrimPrefix(site, "http://")
	site = strings.TrimPrefix(site, "www.")
	return strings.TrimSuffix(site, "/")
}
