// Package db persists per-file correction reports to DynamoDB so batch
// runs can be audited later. Entirely optional plumbing: the core never
// touches it.
package db

import (
	"os"
	"strconv"

	"github.com/jsphweid/handel/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

const tableName = "handel-reports"

func getEndpoint() string {
	endpoint := os.Getenv("DYNAMO_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

func newClient() *dynamodb.DynamoDB {
	endpoint := getEndpoint()
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		panic("Could not create a new DynamoDB session because " + err.Error())
	}
	return dynamodb.New(sess)
}

func numAttr(v int) *dynamodb.AttributeValue {
	return &dynamodb.AttributeValue{N: aws.String(strconv.Itoa(v))}
}

// PutRunReport stores one file's correction stats, keyed by filename.
func PutRunReport(filename string, stats model.CorrectionStats) {
	client := newClient()
	item := map[string]*dynamodb.AttributeValue{
		"PK":           {S: aws.String(filename)},
		"DetectedKey":  {S: aws.String(stats.DetectedKey)},
		"DetectedBPM":  numAttr(stats.DetectedBPM),
		"TotalNotes":   numAttr(stats.TotalNotes),
		"RemovedShort": numAttr(stats.RemovedShort),
		"RemovedQuiet": numAttr(stats.RemovedQuiet),
		"RemovedRange": numAttr(stats.RemovedRange),
		"Extended":     numAttr(stats.Extended),
		"Merged":       numAttr(stats.Merged),
		"OutOfKey":     numAttr(stats.OutOfKey),
	}
	_, err := client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      item,
	})
	if err != nil {
		panic("Error from DynamoDB: " + err.Error())
	}
}

func parseNum(v *dynamodb.AttributeValue) int {
	if v == nil || v.N == nil {
		return 0
	}
	n, _ := strconv.Atoi(*v.N)
	return n
}

// GetRunReports fetches stored reports for up to 10 filenames.
func GetRunReports(filenames []string) map[string]model.CorrectionStats {
	if len(filenames) > 10 {
		panic("Not supposed to pass in more than 10 filenames!")
	}

	res := make(map[string]model.CorrectionStats)
	if len(filenames) == 0 {
		return res
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(filename)},
		})
	}

	client := newClient()
	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			tableName: {Keys: keys},
		},
	}
	dbres, err := client.BatchGetItem(input)
	if err != nil {
		panic("Error from DynamoDB: " + err.Error())
	}

	for _, v := range dbres.Responses[tableName] {
		var s model.CorrectionStats
		if v["DetectedKey"] != nil && v["DetectedKey"].S != nil {
			s.DetectedKey = *v["DetectedKey"].S
		}
		s.DetectedBPM = parseNum(v["DetectedBPM"])
		s.TotalNotes = parseNum(v["TotalNotes"])
		s.RemovedShort = parseNum(v["RemovedShort"])
		s.RemovedQuiet = parseNum(v["RemovedQuiet"])
		s.RemovedRange = parseNum(v["RemovedRange"])
		s.Extended = parseNum(v["Extended"])
		s.Merged = parseNum(v["Merged"])
		s.OutOfKey = parseNum(v["OutOfKey"])
		res[*v["PK"].S] = s
	}

	return res
}
