package mongostore

import (
	"regexp"
	"strconv"

	"paper-search/models"
	"paper-search/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter renders a predicate as a MongoDB filter document.
// The top-level conjunction becomes sibling keys; nested groups use $and / $or.
func Filter(p query.Predicate) bson.D {
	if query.IsMatchAll(p) {
		return bson.D{}
	}
	switch p := p.(type) {
	case query.And:
		return conjunction(p)
	default:
		return condition(p)
	}
}

func conjunction(clauses query.And) bson.D {
	doc := bson.D{}
	seen := make(map[string]struct{})
	for _, c := range clauses {
		for _, e := range condition(c) {
			if _, dup := seen[e.Key]; dup {
				return bson.D{{Key: "$and", Value: subDocs(clauses)}}
			}
			seen[e.Key] = struct{}{}
			doc = append(doc, e)
		}
	}
	return doc
}

func condition(p query.Predicate) bson.D {
	switch p := p.(type) {
	case query.In:
		return bson.D{{Key: p.Field, Value: bson.D{{Key: "$in", Value: inValues(p)}}}}
	case query.Contains:
		return bson.D{{Key: p.Field, Value: primitive.Regex{Pattern: regexp.QuoteMeta(p.Substring), Options: "i"}}}
	case query.Or:
		return bson.D{{Key: "$or", Value: subDocs(p)}}
	case query.And:
		if len(p) == 0 {
			return bson.D{}
		}
		return bson.D{{Key: "$and", Value: subDocs(p)}}
	default:
		return bson.D{}
	}
}

func subDocs(ps []query.Predicate) bson.A {
	out := make(bson.A, 0, len(ps))
	for _, sub := range ps {
		out = append(out, condition(sub))
	}
	return out
}

// inValues lists the accepted values. Year tokens also match their numeric form,
// since documents may store the year as a number.
func inValues(p query.In) bson.A {
	out := make(bson.A, 0, len(p.Values))
	for _, v := range p.Values {
		out = append(out, v)
	}
	if p.Field != models.FieldYear {
		return out
	}
	for _, v := range p.Values {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// Sort renders sort keys as a MongoDB sort document.
func Sort(keys []query.SortKey, prefix string) bson.D {
	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Descending {
			dir = -1
		}
		doc = append(doc, bson.E{Key: prefix + k.Field, Value: dir})
	}
	return doc
}

// GroupPipeline counts documents per value of fields, then sorts the buckets.
// A single field groups on the bare value; several fields group on a sub-document.
func GroupPipeline(fields []string, order []query.SortKey) bson.A {
	var id any
	prefix := "_id."
	if len(fields) == 1 {
		id = "$" + fields[0]
		prefix = ""
	} else {
		key := make(bson.D, 0, len(fields))
		for _, f := range fields {
			key = append(key, bson.E{Key: f, Value: "$" + f})
		}
		id = key
	}

	sortDoc := Sort(order, prefix)
	if len(fields) == 1 {
		for i := range sortDoc {
			sortDoc[i].Key = "_id"
		}
	}

	return bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: sortDoc}},
	}
}
