package spring

var SummaryLine = summaryLine

const LogHeader = logHeader
