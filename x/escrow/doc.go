/*

Package escrow implements a two party conditional payment hold.

A buyer commits an amount to a seller. The escrow stays active until either
the buyer releases it to the seller, or any of the two parties refunds it back
to the buyer. Released and refunded escrows are terminal and never change
again.

Escrows only record the amount. No value is moved by this extension.

Every write extends the lifetime of the written records, as configured by the
"escrow" package configuration.

*/
package escrow
