package storage

// fundingIndexMapping is the mapping for the funding-records index. Fields
// that back filters, sorts, and aggregations are keywords; company_name keeps
// a keyword sub-field so it stays searchable and sortable.
const fundingIndexMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "description":  {"type": "text"},
      "company_name": {
        "type": "text",
        "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}
      },
      "company_url":  {"type": "keyword"},
      "amount":       {"type": "long"},
      "round":        {"type": "keyword"},
      "investors": {
        "properties": {
          "name": {"type": "keyword"},
          "url":  {"type": "keyword"}
        }
      },
      "story_link":   {"type": "keyword"},
      "source":       {"type": "keyword"},
      "date":         {"type": "date", "format": "yyyy-MM-dd"},
      "company_type": {"type": "keyword"},
      "reference":    {"type": "keyword"},
      "created_at":   {"type": "date"}
    }
  }
}`
