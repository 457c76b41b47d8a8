/*
Package household computes the financial analytics of a household: net worth, allocations,
trends, annual rollups, investment returns and budget variance, as of any historical date and
expressed in any currency.

# Data

The package reads snapshots through small interfaces (see [Store]): accounts, dated
valuations of those accounts, exchange rates, investment transactions, budget lines,
expense and income entries, and the category mapping tables. It never writes them. The only
write it triggers is the replacement of the materialized annual summaries of a family and a
year.

# Currencies

Every exchange rate expresses the value of one unit of a currency in USD. A [RateResolver]
finds the rate in effect at a date; [BuildRateMap] takes a snapshot of all the rates in
effect at a cutoff date, which is then used for a whole batch of conversions. Both fall back
on a table of default rates, and report a [ConfigurationError] for currencies that have
neither.

Reports take a reporting currency. [All] means that every account participates and amounts
are converted to USD. Any other currency code selects only the accounts held in that
currency, and amounts are not converted.

# Valuation

The value of an account at a date is its latest valuation not after that date. An account
without such a valuation does not participate in the report at all, neither in the totals
nor in the percentages.

# Rounding

Amounts are kept exact during a computation and rounded to two decimals (half up) when they
are reported.
*/
package household
