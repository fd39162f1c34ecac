package materializer

import (
	"fmt"
	"strings"
)

const TableName = "player_info"

// BuildDrop returns a DROP TABLE IF EXISTS for the player table. Dropping an external
// table leaves the S3 objects in place.
func BuildDrop(db string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS `%s`.`%s`", db, TableName)
}

// BuildPlayerInfoTable returns the DDL for an external CSV table over location
// (s3://bucket/prefix/). Column order matches the CSV writer.
func BuildPlayerInfoTable(db, location string, includeURL bool) string {
	cols := []string{
		"`index` int",
		"`firstname` string",
		"`lastname` string",
		"`position` string",
		"`yearbegin` int",
		"`yearend` int",
	}
	if includeURL {
		cols = append(cols, "`url` string")
	}
	if !strings.HasSuffix(location, "/") {
		location += "/"
	}
	return fmt.Sprintf("CREATE EXTERNAL TABLE IF NOT EXISTS `%s`.`%s` (\n  %s\n)\n"+
		"ROW FORMAT SERDE 'org.apache.hadoop.hive.serde2.OpenCSVSerde'\n"+
		"WITH SERDEPROPERTIES ('separatorChar' = ',', 'quoteChar' = '\"')\n"+
		"STORED AS TEXTFILE\n"+
		"LOCATION '%s'\n"+
		"TBLPROPERTIES ('skip.header.line.count' = '1')",
		db, TableName, strings.Join(cols, ",\n  "), location)
}

// BuildCount returns a row count over the player table.
func BuildCount(db string) string {
	return fmt.Sprintf("SELECT COUNT(*) AS c FROM \"%s\".\"%s\"", db, TableName)
}
